package app

import (
	"context"
	"log"
	"time"

	"documind/internal/model"
	"documind/internal/repository"
)

// simulatedAnswerPrefix is the fixed assistant reply template. No retrieval or
// generation happens behind it.
const simulatedAnswerPrefix = "Based on the document content, here's what I found about: "

type ChatService struct {
	docRepo          *repository.DocumentRepository
	messageRepo      *repository.ChatMessageRepository
	historyCache     HistoryCache
	publisher        EventPublisher
	enforceOwnership bool
	now              func() time.Time
}

type SendMessageInput struct {
	UserID     string
	DocumentID string
	Content    string
}

// NewChatService wires the chat log store. With enforceOwnership unset any
// authenticated caller may chat against any existing document.
func NewChatService(
	docRepo *repository.DocumentRepository,
	messageRepo *repository.ChatMessageRepository,
	historyCache HistoryCache,
	publisher EventPublisher,
	enforceOwnership bool,
) *ChatService {
	return &ChatService{
		docRepo:          docRepo,
		messageRepo:      messageRepo,
		historyCache:     historyCache,
		publisher:        publisher,
		enforceOwnership: enforceOwnership,
		now:              time.Now,
	}
}

// SimulatedAnswer builds the assistant reply for a user message.
func SimulatedAnswer(message string) string {
	return simulatedAnswerPrefix + message
}

// SendMessage appends the user message, stored exactly as sent, and the
// simulated assistant reply to the document's chat log and returns the reply.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (string, error) {
	if input.UserID == "" {
		return "", ErrInvalidInput
	}
	if err := s.checkDocument(ctx, input.DocumentID, input.UserID); err != nil {
		return "", err
	}

	answer := SimulatedAnswer(input.Content)
	exchange := []model.ChatMessage{
		{
			DocumentID: input.DocumentID,
			Role:       model.RoleUser,
			Content:    input.Content,
			Timestamp:  s.now(),
		},
		{
			DocumentID: input.DocumentID,
			Role:       model.RoleAssistant,
			Content:    answer,
			Timestamp:  s.now(),
		},
	}
	if err := s.messageRepo.AppendAll(ctx, exchange); err != nil {
		return "", err
	}
	s.dropCachedHistory(ctx, input.DocumentID)

	publishEvent(ctx, s.publisher, model.Event{
		Type:       model.EventChatExchanged,
		UserID:     input.UserID,
		DocumentID: input.DocumentID,
		OccurredAt: exchange[0].Timestamp,
	})
	return answer, nil
}

func (s *ChatService) GetHistory(ctx context.Context, userID, documentID string) ([]model.ChatMessage, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		cached, hit, err := s.historyCache.GetHistory(ctx, documentID)
		if err != nil {
			log.Printf("read history cache failed document=%s err=%v", documentID, err)
		} else if hit {
			return cached, nil
		}
	}

	// the generation is read before the log so a concurrent append always
	// wins over this snapshot
	var generation int64
	cacheable := s.historyCache != nil
	if cacheable {
		gen, err := s.historyCache.Generation(ctx, documentID)
		if err != nil {
			log.Printf("read history generation failed document=%s err=%v", documentID, err)
			cacheable = false
		}
		generation = gen
	}

	messages, err := s.messageRepo.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if _, err := s.historyCache.SetHistory(ctx, documentID, generation, messages); err != nil {
			log.Printf("write history cache failed document=%s err=%v", documentID, err)
		}
	}
	return messages, nil
}

func (s *ChatService) checkDocument(ctx context.Context, documentID, userID string) error {
	if documentID == "" {
		return ErrDocumentNotFound
	}
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if s.enforceOwnership && doc.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *ChatService) dropCachedHistory(ctx context.Context, documentID string) {
	if s.historyCache == nil {
		return
	}
	if err := s.historyCache.InvalidateHistory(ctx, documentID); err != nil {
		log.Printf("drop history cache failed document=%s err=%v", documentID, err)
	}
}
