package worker

import (
	"context"
	"errors"
	"testing"

	"documind/internal/model"
	"documind/internal/platform/sqlite"
	"documind/internal/repository"
)

func TestDecodeActivity(t *testing.T) {
	activity, err := decodeActivity([]byte(`{"type":"document.uploaded","user_id":"a@x.com","document_id":"d1","occurred_at":"2026-01-02T03:04:05Z"}`))
	if err != nil {
		t.Fatalf("decodeActivity: %v", err)
	}
	if activity.Type != model.EventDocumentUploaded || activity.UserID != "a@x.com" || activity.DocumentID != "d1" {
		t.Errorf("decodeActivity = %+v", activity)
	}
	if activity.OccurredAt.Year() != 2026 {
		t.Errorf("OccurredAt = %v, want 2026", activity.OccurredAt)
	}

	for _, body := range []string{`not json`, `{"user_id":"a@x.com"}`, `{"type":"chat.exchanged"}`} {
		if _, err := decodeActivity([]byte(body)); !errors.Is(err, errInvalidEvent) {
			t.Errorf("decodeActivity(%s) error = %v, want errInvalidEvent", body, err)
		}
	}
}

func TestHandle_RecordsActivity(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.NewMemory(ctx)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	repo := repository.NewActivityRepository(db)
	w := NewActivityWorker(nil, repo, "documind.activity")

	if err := w.handle(ctx, []byte(`{"type":"chat.exchanged","user_id":"a@x.com","document_id":"d1"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := w.handle(ctx, []byte(`{}`)); err == nil {
		t.Error("handle accepted an empty event")
	}

	list, err := repo.ListByUserID(ctx, "a@x.com", 10)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(list) != 1 || list[0].Type != model.EventChatExchanged {
		t.Fatalf("ListByUserID = %+v, want one chat.exchanged", list)
	}
	if list[0].OccurredAt.IsZero() {
		t.Error("OccurredAt defaulted to zero")
	}
}

func TestClose_WithoutStart(t *testing.T) {
	w := NewActivityWorker(nil, nil, "documind.activity")
	w.Close()
}
