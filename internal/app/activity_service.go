package app

import (
	"context"
	"log"

	"documind/internal/model"
	"documind/internal/repository"
)

// EventPublisher delivers domain events to the activity queue.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// publishEvent is best effort: the mutation the event describes has already
// been committed, so failures are only logged.
func publishEvent(ctx context.Context, publisher EventPublisher, event model.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("publish event failed type=%s user=%s document=%s err=%v", event.Type, event.UserID, event.DocumentID, err)
	}
}

type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

func (s *ActivityService) ListActivity(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.activityRepo.ListByUserID(ctx, userID, limit)
}
