package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"

	"documind/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*HistoryCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewHistoryCache(client, ttl), server
}

func TestHistoryCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, time.Minute)

	if _, hit, err := cache.GetHistory(ctx, "d1"); err != nil || hit {
		t.Fatalf("GetHistory on empty cache = hit %v, err %v; want miss", hit, err)
	}

	gen, err := cache.Generation(ctx, "d1")
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if gen != 0 {
		t.Fatalf("Generation of untouched log = %d, want 0", gen)
	}

	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	messages := []model.ChatMessage{
		{Role: model.RoleUser, Content: "Paris", Timestamp: ts},
		{Role: model.RoleAssistant, Content: "about: Paris", Timestamp: ts},
	}
	stored, err := cache.SetHistory(ctx, "d1", gen, messages)
	if err != nil {
		t.Fatalf("SetHistory: %v", err)
	}
	if !stored {
		t.Fatal("SetHistory with current generation was not stored")
	}
	if ttl := server.TTL("chat:history:d1"); ttl != time.Minute {
		t.Errorf("TTL = %v, want %v", ttl, time.Minute)
	}

	got, hit, err := cache.GetHistory(ctx, "d1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if !hit {
		t.Fatal("GetHistory missed after SetHistory")
	}
	if len(got) != 2 || got[0].Content != "Paris" || got[1].Role != model.RoleAssistant {
		t.Errorf("GetHistory = %+v, want cached exchange", got)
	}
	if !got[0].Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, ts)
	}

	if err := cache.InvalidateHistory(ctx, "d1"); err != nil {
		t.Fatalf("InvalidateHistory: %v", err)
	}
	if _, hit, _ := cache.GetHistory(ctx, "d1"); hit {
		t.Error("GetHistory hit after InvalidateHistory")
	}
	if gen, _ := cache.Generation(ctx, "d1"); gen != 1 {
		t.Errorf("Generation after InvalidateHistory = %d, want 1", gen)
	}
}

func TestHistoryCache_StaleSnapshotNotStored(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, time.Minute)

	// reader takes the generation, a writer lands, then the reader tries to cache
	before, err := cache.Generation(ctx, "d1")
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if err := cache.InvalidateHistory(ctx, "d1"); err != nil {
		t.Fatalf("InvalidateHistory: %v", err)
	}

	stale := []model.ChatMessage{{Role: model.RoleUser, Content: "old"}}
	stored, err := cache.SetHistory(ctx, "d1", before, stale)
	if err != nil {
		t.Fatalf("SetHistory: %v", err)
	}
	if stored {
		t.Error("SetHistory stored a snapshot older than the last write")
	}
	if server.Exists("chat:history:d1") {
		t.Error("stale snapshot present in redis")
	}

	after, _ := cache.Generation(ctx, "d1")
	if stored, err := cache.SetHistory(ctx, "d1", after, stale); err != nil || !stored {
		t.Errorf("SetHistory with fresh generation = %v, %v; want stored", stored, err)
	}
}

func TestHistoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, 0)

	if _, err := cache.SetHistory(ctx, "d1", 0, []model.ChatMessage{{Role: model.RoleUser, Content: "x"}}); err != nil {
		t.Fatalf("SetHistory: %v", err)
	}
	server.FastForward(defaultHistoryTTL + time.Second)

	if _, hit, err := cache.GetHistory(ctx, "d1"); err != nil || hit {
		t.Errorf("GetHistory after TTL = hit %v, err %v; want miss", hit, err)
	}
}

func TestHistoryCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, time.Minute)

	if err := server.Set("chat:history:d1", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, err := cache.GetHistory(ctx, "d1"); err == nil || hit {
		t.Errorf("GetHistory on corrupt entry = hit %v, err %v; want error", hit, err)
	}
}
