package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/models"
)

// EventStore persists locally owned calendar events.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	ByID(ctx context.Context, id string) (*models.Event, error)
	ByUser(ctx context.Context, userID string) ([]models.Event, error)
	Save(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type gormEventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) EventStore {
	return &gormEventStore{db: db}
}

func (s *gormEventStore) Create(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *gormEventStore) ByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *gormEventStore) ByUser(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *gormEventStore) Save(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Save(event).Error
}

func (s *gormEventStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
