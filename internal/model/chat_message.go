package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a document's append-only chat log. The
// auto-increment ID defines log order.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	DocumentID string    `gorm:"size:36;not null;index" json:"-"`
	Content    string    `gorm:"type:longtext;not null" json:"content"`
	Role       string    `gorm:"size:16;not null" json:"role"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}
