package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"documind/internal/model"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// AppendAll inserts messages in slice order inside a single transaction.
func (r *ChatMessageRepository) AppendAll(ctx context.Context, messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range messages {
			if err := tx.Create(&messages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append chat messages failed: %w", err)
	}
	return nil
}

func (r *ChatMessageRepository) ListByDocumentID(ctx context.Context, documentID string) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list chat messages failed: %w", err)
	}
	return messages, nil
}

func (r *ChatMessageRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&model.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("delete chat messages by document failed: %w", err)
	}
	return nil
}
