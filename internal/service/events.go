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

// DefaultEventStatus is assigned to events created without an explicit status.
const DefaultEventStatus = "active"

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// EventStore is the persistence surface EventService depends on.
type EventStore interface {
	Create(ctx context.Context, req model.EventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context, name string, page, perPage int) ([]model.Event, int, error)
	Search(ctx context.Context, name string) ([]model.Event, error)
	ListByAttendee(ctx context.Context, userID int64, page, perPage int) ([]model.Event, int, error)
	Update(ctx context.Context, id int64, req model.EventRequest) error
	Delete(ctx context.Context, id int64) error
	CountAttendees(ctx context.Context, id int64) (int, error)
}

// EventRegistrationStore is the booking surface EventService depends on.
type EventRegistrationStore interface {
	BookEvent(ctx context.Context, userID, eventID int64) error
	CancelEvent(ctx context.Context, userID, eventID int64) error
}

// EventService orchestrates event CRUD and event registration.
type EventService struct {
	events        EventStore
	registrations EventRegistrationStore
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, registrations EventRegistrationStore, logger zerolog.Logger) *EventService {
	return &EventService{
		events:        events,
		registrations: registrations,
		validate:      newValidator(),
		logger:        logger.With().Str("component", "events").Logger(),
	}
}

// normalizePage applies the default page and page size for non-positive input.
func normalizePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return page, perPage
}

// List returns one page of events, optionally filtered by a case-insensitive
// name substring.
func (s *EventService) List(ctx context.Context, name string, page, perPage int) (*model.EventPage, error) {
	page, perPage = normalizePage(page, perPage)
	events, total, err := s.events.List(ctx, name, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if events == nil {
		events = []model.Event{}
	}
	return &model.EventPage{
		Events:     events,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Create validates required fields and inserts the event. Only field presence
// is validated here; the time range is stored as submitted.
func (s *EventService) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}
	if req.Status == "" {
		req.Status = DefaultEventStatus
	}
	event, err := s.events.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info().Int64("event_id", event.ID).Str("name", event.Name).Msg("event created")
	return event, nil
}

// Get returns a single event by id.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// Update fully replaces an event's fields. The new range is not checked
// against existing sessions.
func (s *EventService) Update(ctx context.Context, id int64, req model.EventRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return asValidationError(err)
	}
	if req.Status == "" {
		req.Status = DefaultEventStatus
	}
	return s.events.Update(ctx, id, req)
}

// Delete removes an event with its roster and sessions.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("event_id", id).Msg("event deleted")
	return nil
}

// Search returns all events matching a name substring, without pagination.
func (s *EventService) Search(ctx context.Context, name string) ([]model.Event, error) {
	events, err := s.events.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// ListMine returns one page of the events the user is registered for.
func (s *EventService) ListMine(ctx context.Context, userID int64, page, perPage int) ([]model.Event, int, error) {
	page, perPage = normalizePage(page, perPage)
	events, total, err := s.events.ListByAttendee(ctx, userID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list my events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, total, nil
}

// Register books the user into the event, enforcing uniqueness and capacity.
func (s *EventService) Register(ctx context.Context, userID, eventID int64) error {
	err := s.registrations.BookEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrAlreadyRegistered) ||
			errors.Is(err, repository.ErrEventFull) {
			return err
		}
		return fmt.Errorf("register for event: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Int64("event_id", eventID).Msg("registered for event")
	return nil
}

// Unregister removes the user's registration for the event.
func (s *EventService) Unregister(ctx context.Context, userID, eventID int64) error {
	err := s.registrations.CancelEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrNotRegistered) {
			return err
		}
		return fmt.Errorf("unregister from event: %w", err)
	}
	return nil
}

// AvailableCapacity returns the event's remaining capacity.
func (s *EventService) AvailableCapacity(ctx context.Context, id int64) (int, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	attendees, err := s.events.CountAttendees(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return event.MaxCapacity - attendees, nil
}
