package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"documind/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity failed: %w", err)
	}
	return nil
}

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 200
)

// ListByUserID returns the newest activity first. A non-positive limit means
// the default page size and larger limits are capped at maxActivityLimit.
func (r *ActivityRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}

	list := []model.Activity{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list activity failed: %w", err)
	}
	return list, nil
}
