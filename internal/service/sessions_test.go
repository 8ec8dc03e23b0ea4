package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
)

// fakeSessionStore keeps sessions in memory.
type fakeSessionStore struct {
	sessions  []model.Session
	attendees map[int64]int
	nextID    int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{attendees: make(map[int64]int)}
}

func (f *fakeSessionStore) Create(_ context.Context, req model.SessionRequest) (*model.Session, error) {
	f.nextID++
	s := model.Session{
		ID:          f.nextID,
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		Speaker:     req.Speaker,
	}
	f.sessions = append(f.sessions, s)
	return &s, nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id int64) (*model.Session, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			return &f.sessions[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSessionStore) ListByEvent(_ context.Context, eventID int64) ([]model.Session, error) {
	var out []model.Session
	for _, s := range f.sessions {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListViews(_ context.Context) ([]model.SessionView, error) {
	var out []model.SessionView
	for _, s := range f.sessions {
		n := f.attendees[s.ID]
		out = append(out, model.SessionView{
			Session:           s,
			CurrentAttendees:  n,
			AvailableCapacity: s.MaxCapacity - n,
		})
	}
	return out, nil
}

func (f *fakeSessionStore) Update(_ context.Context, id int64, req model.SessionRequest) error {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i] = model.Session{
				ID:          id,
				EventID:     req.EventID,
				Name:        req.Name,
				Description: req.Description,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
				MaxCapacity: req.MaxCapacity,
				Speaker:     req.Speaker,
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSessionStore) Delete(_ context.Context, id int64) error {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSessionStore) AssignSpeaker(_ context.Context, id int64, speaker string) error {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].Speaker = speaker
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSessionStore) CountAttendees(_ context.Context, id int64) (int, error) {
	return f.attendees[id], nil
}

func (f *fakeSessionStore) AttendanceRecords(context.Context) ([]model.AttendanceRecord, error) {
	return nil, nil
}

// fakeEventGetter serves a single event.
type fakeEventGetter struct {
	event *model.Event
}

func (f *fakeEventGetter) GetByID(_ context.Context, id int64) (*model.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.event, nil
}

// fakeSessionBooking returns a canned error for every booking call.
type fakeSessionBooking struct {
	err error
}

func (f *fakeSessionBooking) BookSession(context.Context, int64, int64) error { return f.err }

func hour(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func conferenceEvent() *model.Event {
	return &model.Event{
		ID:          1,
		Name:        "conference",
		StartTime:   hour(9),
		EndTime:     hour(15),
		MaxCapacity: 100,
		Status:      "active",
	}
}

func sessionRequest(start, end time.Time) model.SessionRequest {
	return model.SessionRequest{
		EventID:     1,
		Name:        "talk",
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: 20,
		Speaker:     "Dr. Smith",
	}
}

func newTestSessionService(store *fakeSessionStore, booking *fakeSessionBooking) *SessionService {
	return NewSessionService(store, &fakeEventGetter{event: conferenceEvent()}, booking, zerolog.Nop())
}

func TestSessionCreateWithinEventWindow(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	session, err := svc.Create(context.Background(), sessionRequest(hour(10), hour(12)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.EventID)
}

func TestSessionCreateValidation(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	req := sessionRequest(hour(10), hour(12))
	req.EventID = 0
	req.Speaker = ""
	_, err := svc.Create(context.Background(), req)

	// Field keys must match the payload's json tags exactly.
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "event_id")
	assert.Contains(t, verr.Fields, "speaker")
	assert.NotContains(t, verr.Fields, "event_i_d")
}

func TestSessionCreateOutsideEventWindow(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"starts before event", hour(8), hour(12)},
		{"ends after event", hour(10), hour(16)},
		{"fully outside", hour(16), hour(18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), sessionRequest(tt.start, tt.end))
			assert.ErrorIs(t, err, ErrOutsideEventWindow)
		})
	}
}

func TestSessionCreateRejectsOverlap(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store, &fakeSessionBooking{})

	_, err := svc.Create(context.Background(), sessionRequest(hour(10), hour(12)))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), sessionRequest(hour(11), hour(13)))
	assert.ErrorIs(t, err, ErrSessionOverlap)
}

func TestSessionCreateAllowsTouchingEndpoints(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store, &fakeSessionBooking{})

	_, err := svc.Create(context.Background(), sessionRequest(hour(10), hour(12)))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), sessionRequest(hour(12), hour(14)))
	assert.NoError(t, err)
}

func TestSessionCreateStripsOffsets(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	// Same wall-clock hours as the event window, submitted in a different
	// offset. Comparison is on wall-clock fields only.
	zone := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, zone)
	end := time.Date(2026, 9, 1, 12, 0, 0, 0, zone)

	_, err := svc.Create(context.Background(), sessionRequest(start, end))
	assert.NoError(t, err)
}

func TestSessionCreateUnknownEvent(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	req := sessionRequest(hour(10), hour(12))
	req.EventID = 42
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionUpdateUnknownSession(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{})

	err := svc.Update(context.Background(), 99, sessionRequest(hour(10), hour(12)))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionAvailableCapacity(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store, &fakeSessionBooking{})

	session, err := svc.Create(context.Background(), sessionRequest(hour(10), hour(12)))
	require.NoError(t, err)
	store.attendees[session.ID] = 15

	remaining, err := svc.AvailableCapacity(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestSessionAssignSpeakerRequiresName(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store, &fakeSessionBooking{})

	session, err := svc.Create(context.Background(), sessionRequest(hour(10), hour(12)))
	require.NoError(t, err)

	err = svc.AssignSpeaker(context.Background(), session.ID, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "speaker")

	err = svc.AssignSpeaker(context.Background(), session.ID, "Dr. Jones")
	require.NoError(t, err)

	updated, err := svc.sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Jones", updated.Speaker)
}

func TestSessionRegisterAttendeePassesThroughBookingErrors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrNotFound,
		repository.ErrNotRegisteredForEvent,
		repository.ErrSessionFull,
		repository.ErrAlreadyInSession,
		repository.ErrScheduleConflict,
	} {
		svc := newTestSessionService(newFakeSessionStore(), &fakeSessionBooking{err: sentinel})
		err := svc.RegisterAttendee(context.Background(), 1, 1)
		assert.ErrorIs(t, err, sentinel)
	}
}
