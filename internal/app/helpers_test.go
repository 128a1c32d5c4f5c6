package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"documind/internal/cache"
	"documind/internal/model"
	"documind/internal/platform/sqlite"
	"documind/internal/repository"
)

type testRepos struct {
	users    *repository.UserRepository
	docs     *repository.DocumentRepository
	messages *repository.ChatMessageRepository
	activity *repository.ActivityRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.NewMemory(context.Background())
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db := newTestDB(t)
	return testRepos{
		users:    repository.NewUserRepository(db),
		docs:     repository.NewDocumentRepository(db),
		messages: repository.NewChatMessageRepository(db),
		activity: repository.NewActivityRepository(db),
	}
}

func newTestHistoryCache(t *testing.T) (*cache.HistoryCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewHistoryCache(client, time.Minute), server
}

// recordingPublisher captures published events; fail makes every Publish error.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func uploadDoc(t *testing.T, svc *DocumentService, owner, name, content string) *model.Document {
	t.Helper()
	doc, err := svc.Upload(context.Background(), UploadInput{UserID: owner, Name: name, Content: []byte(content)})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return doc
}
