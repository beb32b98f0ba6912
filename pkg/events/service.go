// Package events owns create/read/update/delete of local event records and
// keeps the remote calendar mirror aligned. The local write always commits
// first; a failed mirror call propagates but is never rolled back.
package events

import (
	"context"
	"errors"
	"log/slog"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/models"
	"calendareventservice/pkg/repository"
)

// Syncer is the remote mirror used after each local mutation.
type Syncer interface {
	Insert(ctx context.Context, userID string, event *models.Event) error
	Update(ctx context.Context, userID string, event *models.Event) error
	Delete(ctx context.Context, userID, googleCalendarID string) error
}

type Service struct {
	events repository.EventStore
	sync   Syncer
	logger *slog.Logger
}

func NewService(events repository.EventStore, sync Syncer, logger *slog.Logger) *Service {
	return &Service{events: events, sync: sync, logger: logger}
}

// Create persists a new event for userID and mirrors it to the user's
// calendar. The returned event carries the remote id when the mirror call
// succeeded.
func (s *Service) Create(ctx context.Context, event *models.Event, userID string) (*models.Event, error) {
	event.UserID = userID
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event created", "eventID", event.ID, "userID", userID)
	if err := s.sync.Insert(ctx, userID, event); err != nil {
		s.logger.Error("remote insert failed", "eventID", event.ID, "err", err)
		return event, err
	}
	return event, nil
}

// List returns all events owned by userID in storage order.
func (s *Service) List(ctx context.Context, userID string) ([]models.Event, error) {
	return s.events.ByUser(ctx, userID)
}

// Update overwrites the identified event's fields and refreshes the remote
// mirror. Returns nil when the event does not exist; an event owned by a
// different user is treated the same, so a credential never mutates
// another user's records.
func (s *Service) Update(ctx context.Context, id string, data *models.Event, userID string) (*models.Event, error) {
	event, err := s.events.ByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		s.logger.Warn("event update rejected for non-owner", "eventID", id, "userID", userID)
		return nil, nil
	}

	event.Title = data.Title
	event.Description = data.Description
	event.Participants = data.Participants
	event.Date = data.Date
	event.Time = data.Time
	event.Duration = data.Duration
	event.SessionNotes = data.SessionNotes
	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event updated", "eventID", event.ID, "userID", userID)
	if err := s.sync.Update(ctx, userID, event); err != nil {
		s.logger.Error("remote update failed", "eventID", event.ID, "err", err)
		return event, err
	}
	return event, nil
}

// Delete removes the identified event and, when it had a remote twin, the
// remote calendar event as well. Missing events and events owned by a
// different user both report ErrNotFound.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	event, err := s.events.ByID(ctx, id)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		s.logger.Warn("event delete rejected for non-owner", "eventID", id, "userID", userID)
		return apperr.ErrNotFound
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("event deleted", "eventID", id, "userID", userID)
	if event.Synced() {
		if err := s.sync.Delete(ctx, userID, event.GoogleCalendarID); err != nil {
			s.logger.Error("remote delete failed", "eventID", id, "err", err)
			return err
		}
	}
	return nil
}
