package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"documind/internal/model"
	"documind/internal/repository"
)

const defaultDocumentName = "Untitled"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrForbidden        = errors.New("not authorized")
	ErrInvalidEncoding  = errors.New("document content is not valid UTF-8 text")
)

// HistoryCache is the read-through cache in front of chat logs. SetHistory
// only stores a snapshot if no write invalidated the log since generation was
// read.
type HistoryCache interface {
	GetHistory(ctx context.Context, documentID string) ([]model.ChatMessage, bool, error)
	Generation(ctx context.Context, documentID string) (int64, error)
	SetHistory(ctx context.Context, documentID string, generation int64, messages []model.ChatMessage) (bool, error)
	InvalidateHistory(ctx context.Context, documentID string) error
}

type DocumentService struct {
	docRepo      *repository.DocumentRepository
	messageRepo  *repository.ChatMessageRepository
	historyCache HistoryCache
	publisher    EventPublisher
	cascadeChat  bool
	now          func() time.Time
}

type UploadInput struct {
	UserID  string
	Name    string
	Content []byte
}

// NewDocumentService wires the document store. historyCache and publisher may
// be nil. With cascadeChat set, deleting a document also drops its chat log.
func NewDocumentService(
	docRepo *repository.DocumentRepository,
	messageRepo *repository.ChatMessageRepository,
	historyCache HistoryCache,
	publisher EventPublisher,
	cascadeChat bool,
) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		messageRepo:  messageRepo,
		historyCache: historyCache,
		publisher:    publisher,
		cascadeChat:  cascadeChat,
		now:          time.Now,
	}
}

func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}
	if !utf8.Valid(input.Content) {
		return nil, ErrInvalidEncoding
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultDocumentName
	}

	doc := &model.Document{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   string(input.Content),
		UserID:    input.UserID,
		CreatedAt: s.now(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, model.Event{
		Type:       model.EventDocumentUploaded,
		UserID:     doc.UserID,
		DocumentID: doc.ID,
		OccurredAt: doc.CreatedAt,
	})
	return doc, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.docRepo.ListByUserID(ctx, userID)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	if userID == "" {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return ErrForbidden
	}

	deleted, err := s.docRepo.DeleteByIDAndUserID(ctx, documentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		// removed by a concurrent request after the lookup
		return ErrDocumentNotFound
	}

	if s.cascadeChat {
		if err := s.messageRepo.DeleteByDocumentID(ctx, documentID); err != nil {
			return err
		}
		if s.historyCache != nil {
			if err := s.historyCache.InvalidateHistory(ctx, documentID); err != nil {
				log.Printf("drop history cache failed document=%s err=%v", documentID, err)
			}
		}
	}

	publishEvent(ctx, s.publisher, model.Event{
		Type:       model.EventDocumentDeleted,
		UserID:     userID,
		DocumentID: documentID,
		OccurredAt: s.now(),
	})
	return nil
}
