package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/models"
)

type memoryEventStore struct {
	events map[string]models.Event
	order  []string
	seq    int
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{events: map[string]models.Event{}}
}

func (s *memoryEventStore) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		s.seq++
		event.ID = fmt.Sprintf("evt-%d", s.seq)
	}
	s.events[event.ID] = *event
	s.order = append(s.order, event.ID)
	return nil
}

func (s *memoryEventStore) ByID(_ context.Context, id string) (*models.Event, error) {
	if event, ok := s.events[id]; ok {
		return &event, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *memoryEventStore) ByUser(_ context.Context, userID string) ([]models.Event, error) {
	var out []models.Event
	for _, id := range s.order {
		if event, ok := s.events[id]; ok && event.UserID == userID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *memoryEventStore) Save(_ context.Context, event *models.Event) error {
	s.events[event.ID] = *event
	return nil
}

func (s *memoryEventStore) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// recordingSyncer mimics the calendar sync client: insert assigns a remote
// id, update and delete record the bodies they were handed.
type recordingSyncer struct {
	inserts []models.Event
	updates []models.Event
	deletes []string
	err     error
}

func (r *recordingSyncer) Insert(_ context.Context, _ string, event *models.Event) error {
	if r.err != nil {
		return r.err
	}
	event.GoogleCalendarID = fmt.Sprintf("gcal-%d", len(r.inserts)+1)
	r.inserts = append(r.inserts, *event)
	return nil
}

func (r *recordingSyncer) Update(_ context.Context, _ string, event *models.Event) error {
	if r.err != nil {
		return r.err
	}
	if !event.Synced() {
		return nil
	}
	r.updates = append(r.updates, *event)
	return nil
}

func (r *recordingSyncer) Delete(_ context.Context, _ string, googleCalendarID string) error {
	if r.err != nil {
		return r.err
	}
	r.deletes = append(r.deletes, googleCalendarID)
	return nil
}

func newTestService() (*Service, *memoryEventStore, *recordingSyncer) {
	store := newMemoryEventStore()
	syncer := &recordingSyncer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, syncer, logger), store, syncer
}

func sampleEvent(title string) *models.Event {
	return &models.Event{
		Title:        title,
		Participants: []string{"a@x.com"},
		Date:         time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Time:         "09:00",
		Duration:     1,
	}
}

func TestCreateThenListReturnsEvent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
	assert.NotEmpty(t, created.GoogleCalendarID)

	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Standup", listed[0].Title)
	assert.Equal(t, []string{"a@x.com"}, []string(listed[0].Participants))
	assert.Equal(t, "09:00", listed[0].Time)
	assert.Equal(t, 1.0, listed[0].Duration)
}

func TestListIsScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleEvent("Mine"), "user-1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleEvent("Theirs"), "user-2")
	require.NoError(t, err)

	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mine", listed[0].Title)
}

func TestCreateKeepsLocalRecordWhenSyncFails(t *testing.T) {
	svc, store, syncer := newTestService()
	syncer.err = &apperr.ExternalServiceError{Op: "insert", Err: errors.New("boom")}
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.Error(t, err)

	// Local write committed first; the failed mirror does not roll it back.
	listed, err := store.ByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Synced())
}

func TestUpdateNonexistentReturnsNil(t *testing.T) {
	svc, store, syncer := newTestService()

	updated, err := svc.Update(context.Background(), "missing", sampleEvent("X"), "user-1")
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, store.events)
	assert.Empty(t, syncer.updates)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	svc, _, syncer := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, sampleEvent("Hijacked"), "user-2")
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, syncer.updates)

	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Standup", listed[0].Title)
}

func TestUpdateSendsFreshBodyToMirror(t *testing.T) {
	svc, _, syncer := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.NoError(t, err)

	data := sampleEvent("Standup (moved)")
	data.Time = "10:30"
	updated, err := svc.Update(ctx, created.ID, data, "user-1")
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.Len(t, syncer.updates, 1)
	assert.Equal(t, "Standup (moved)", syncer.updates[0].Title)
	assert.Equal(t, "10:30", syncer.updates[0].Time)
	assert.Equal(t, created.GoogleCalendarID, syncer.updates[0].GoogleCalendarID)
}

func TestDeleteSyncedEventTriggersOneRemoteDelete(t *testing.T) {
	svc, store, syncer := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, "user-1"))
	assert.Equal(t, []string{created.GoogleCalendarID}, syncer.deletes)
	assert.Empty(t, store.events)
}

func TestDeleteUnsyncedEventTriggersNoRemoteCall(t *testing.T) {
	svc, store, syncer := newTestService()
	ctx := context.Background()

	event := sampleEvent("Local only")
	event.UserID = "user-1"
	require.NoError(t, store.Create(ctx, event))

	require.NoError(t, svc.Delete(ctx, event.ID, "user-1"))
	assert.Empty(t, syncer.deletes)
}

func TestDeleteNonexistentReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Delete(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	svc, store, syncer := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEvent("Standup"), "user-1")
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, "user-2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, syncer.deletes)
	assert.Len(t, store.events, 1)
}
