package model

import "time"

type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Content   string    `gorm:"type:longtext;not null" json:"content"`
	UserID    string    `gorm:"size:128;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
