package model

import "time"

const (
	EventDocumentUploaded = "document.uploaded"
	EventDocumentDeleted  = "document.deleted"
	EventChatExchanged    = "chat.exchanged"
)

// Event is the payload published to the activity queue.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Activity is an Event recorded by the activity worker.
type Activity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:128;not null;index" json:"user_id"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	DocumentID string    `gorm:"size:36" json:"document_id"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
