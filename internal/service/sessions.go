package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
)

// SessionStore is the persistence surface SessionService depends on.
type SessionStore interface {
	Create(ctx context.Context, req model.SessionRequest) (*model.Session, error)
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Session, error)
	ListViews(ctx context.Context) ([]model.SessionView, error)
	Update(ctx context.Context, id int64, req model.SessionRequest) error
	Delete(ctx context.Context, id int64) error
	AssignSpeaker(ctx context.Context, id int64, speaker string) error
	CountAttendees(ctx context.Context, id int64) (int, error)
	AttendanceRecords(ctx context.Context) ([]model.AttendanceRecord, error)
}

// SessionEventStore is the slice of the event store SessionService needs for
// containment checks.
type SessionEventStore interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
}

// SessionRegistrationStore is the booking surface SessionService depends on.
type SessionRegistrationStore interface {
	BookSession(ctx context.Context, userID, sessionID int64) error
}

// SessionService orchestrates session CRUD and session registration.
type SessionService struct {
	sessions      SessionStore
	events        SessionEventStore
	registrations SessionRegistrationStore
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewSessionService constructs a SessionService with its dependencies.
func NewSessionService(
	sessions SessionStore,
	events SessionEventStore,
	registrations SessionRegistrationStore,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessions:      sessions,
		events:        events,
		registrations: registrations,
		validate:      newValidator(),
		logger:        logger.With().Str("component", "sessions").Logger(),
	}
}

// Create validates the session, checks that its window lies inside the owning
// event's window, and rejects any overlap with the event's existing sessions.
// Windows are compared as naive instants ([start, end), offsets stripped);
// touching endpoints are not an overlap.
func (s *SessionService) Create(ctx context.Context, req model.SessionRequest) (*model.Session, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	start, end := model.Naive(req.StartTime), model.Naive(req.EndTime)
	if !model.WithinWindow(start, end, model.Naive(event.StartTime), model.Naive(event.EndTime)) {
		return nil, ErrOutsideEventWindow
	}

	siblings, err := s.sessions.ListByEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("list event sessions: %w", err)
	}
	for _, sib := range siblings {
		if model.Overlaps(start, end, model.Naive(sib.StartTime), model.Naive(sib.EndTime)) {
			return nil, ErrSessionOverlap
		}
	}

	session, err := s.sessions.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info().Int64("session_id", session.ID).Int64("event_id", session.EventID).Msg("session created")
	return session, nil
}

// Update fully replaces a session's fields. Containment and overlap are not
// re-checked on update.
func (s *SessionService) Update(ctx context.Context, id int64, req model.SessionRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return asValidationError(err)
	}
	if _, err := s.sessions.GetByID(ctx, id); err != nil {
		return err
	}
	return s.sessions.Update(ctx, id, req)
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	return s.sessions.Delete(ctx, id)
}

// AvailableCapacity returns the session's remaining capacity.
func (s *SessionService) AvailableCapacity(ctx context.Context, id int64) (int, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	attendees, err := s.sessions.CountAttendees(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return session.MaxCapacity - attendees, nil
}

// ListForEvent returns all sessions of an event.
func (s *SessionService) ListForEvent(ctx context.Context, eventID int64) ([]model.Session, error) {
	sessions, err := s.sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions, nil
}

// ListAll returns every session with its derived occupancy figures.
func (s *SessionService) ListAll(ctx context.Context) ([]model.SessionView, error) {
	views, err := s.sessions.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list session views: %w", err)
	}
	if views == nil {
		views = []model.SessionView{}
	}
	return views, nil
}

// AssignSpeaker sets the session's speaker.
func (s *SessionService) AssignSpeaker(ctx context.Context, id int64, speaker string) error {
	if speaker == "" {
		return NewValidationError("speaker", "this field is required")
	}
	return s.sessions.AssignSpeaker(ctx, id, speaker)
}

// AttendanceRecords returns the full session attendance report.
func (s *SessionService) AttendanceRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	records, err := s.sessions.AttendanceRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// RegisterAttendee books a user into a session, enforcing event membership,
// capacity, uniqueness, and schedule-conflict exclusion.
func (s *SessionService) RegisterAttendee(ctx context.Context, userID, sessionID int64) error {
	err := s.registrations.BookSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrNotRegisteredForEvent) ||
			errors.Is(err, repository.ErrSessionFull) ||
			errors.Is(err, repository.ErrAlreadyInSession) ||
			errors.Is(err, repository.ErrScheduleConflict) {
			return err
		}
		return fmt.Errorf("register attendee: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Int64("session_id", sessionID).Msg("registered for session")
	return nil
}
