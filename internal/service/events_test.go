package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
)

// fakeEventStore keeps events in memory and applies the same filter and
// paging semantics as the SQL queries.
type fakeEventStore struct {
	events    []model.Event
	attendees map[int64]int
	nextID    int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{attendees: make(map[int64]int)}
}

func (f *fakeEventStore) Create(_ context.Context, req model.EventRequest) (*model.Event, error) {
	f.nextID++
	e := model.Event{
		ID:          f.nextID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		Status:      req.Status,
	}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*model.Event, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEventStore) List(_ context.Context, name string, page, perPage int) ([]model.Event, int, error) {
	var matched []model.Event
	for _, e := range f.events {
		if name == "" || strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			matched = append(matched, e)
		}
	}
	total := len(matched)
	lo := (page - 1) * perPage
	if lo > total {
		lo = total
	}
	hi := lo + perPage
	if hi > total {
		hi = total
	}
	return matched[lo:hi], total, nil
}

func (f *fakeEventStore) Search(ctx context.Context, name string) ([]model.Event, error) {
	events, _, err := f.List(ctx, name, 1, len(f.events)+1)
	return events, err
}

func (f *fakeEventStore) ListByAttendee(context.Context, int64, int, int) ([]model.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEventStore) Update(_ context.Context, id int64, req model.EventRequest) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i] = model.Event{
				ID:          id,
				Name:        req.Name,
				Description: req.Description,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
				MaxCapacity: req.MaxCapacity,
				Status:      req.Status,
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEventStore) CountAttendees(_ context.Context, id int64) (int, error) {
	return f.attendees[id], nil
}

// fakeBookingStore returns a canned error for every booking call.
type fakeBookingStore struct {
	err error
}

func (f *fakeBookingStore) BookEvent(context.Context, int64, int64) error   { return f.err }
func (f *fakeBookingStore) CancelEvent(context.Context, int64, int64) error { return f.err }

func newTestEventService(store *fakeEventStore, bookings *fakeBookingStore) *EventService {
	return NewEventService(store, bookings, zerolog.Nop())
}

func eventRequest(name string) model.EventRequest {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return model.EventRequest{
		Name:        name,
		Description: "a test event",
		StartTime:   start,
		EndTime:     start.Add(8 * time.Hour),
		MaxCapacity: 50,
	}
}

func TestEventListPagination(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestEventService(store, &fakeBookingStore{})

	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), eventRequest("event"))
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), "", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Events, 5)
}

func TestEventListEmpty(t *testing.T) {
	svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{})

	page, err := svc.List(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.Events)
}

func TestEventListNameFilter(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestEventService(store, &fakeBookingStore{})

	_, err := svc.Create(context.Background(), eventRequest("Tech Conference"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), eventRequest("Music Festival"))
	require.NoError(t, err)

	page, err := svc.List(context.Background(), "tech", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "Tech Conference", page.Events[0].Name)
}

func TestEventCreateDefaultsStatus(t *testing.T) {
	svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{})

	event, err := svc.Create(context.Background(), eventRequest("no status"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEventStatus, event.Status)

	req := eventRequest("explicit status")
	req.Status = "cancelled"
	event, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", event.Status)
}

func TestEventCreateValidation(t *testing.T) {
	svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{})

	req := eventRequest("")
	req.MaxCapacity = 0
	_, err := svc.Create(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "max_capacity")
}

func TestEventAvailableCapacity(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestEventService(store, &fakeBookingStore{})

	event, err := svc.Create(context.Background(), eventRequest("capacity test"))
	require.NoError(t, err)
	store.attendees[event.ID] = 30

	remaining, err := svc.AvailableCapacity(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, remaining)

	_, err = svc.AvailableCapacity(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRegisterPassesThroughBookingErrors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrNotFound,
		repository.ErrAlreadyRegistered,
		repository.ErrEventFull,
	} {
		svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{err: sentinel})
		err := svc.Register(context.Background(), 1, 1)
		assert.ErrorIs(t, err, sentinel)
	}

	svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{err: errors.New("connection reset")})
	err := svc.Register(context.Background(), 1, 1)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorContains(t, err, "register for event")
}

func TestEventUnregisterPassesThroughBookingErrors(t *testing.T) {
	for _, sentinel := range []error{repository.ErrNotFound, repository.ErrNotRegistered} {
		svc := newTestEventService(newFakeEventStore(), &fakeBookingStore{err: sentinel})
		err := svc.Unregister(context.Background(), 1, 1)
		assert.ErrorIs(t, err, sentinel)
	}
}
