package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
)

const eventColumns = `id, name, description, start_time, end_time, max_capacity, status`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.MaxCapacity, &e.Status)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.MaxCapacity, &e.Status); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts a new event and returns it with its assigned id.
func (r *EventRepository) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	event, err := scanEvent(r.db.QueryRow(ctx,
		`INSERT INTO events (name, description, start_time, end_time, max_capacity, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+eventColumns,
		req.Name, req.Description, req.StartTime, req.EndTime, req.MaxCapacity, req.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	event, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns one page of events, optionally filtered by a case-insensitive
// name substring, together with the total number of matching rows.
func (r *EventRepository) List(ctx context.Context, name string, page, perPage int) ([]model.Event, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`,
		name,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY id
		 OFFSET $2 LIMIT $3`,
		name, (page-1)*perPage, perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Search returns all events whose name contains the given substring,
// case-insensitively and without pagination.
func (r *EventRepository) Search(ctx context.Context, name string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE name ILIKE '%' || $1 || '%' ORDER BY id`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return collectEvents(rows)
}

// ListByAttendee returns one page of the events a user is registered for,
// joined through the attendance table, with the total count.
func (r *EventRepository) ListByAttendee(ctx context.Context, userID int64, page, perPage int) ([]model.Event, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM events e
		 JOIN event_attendees ea ON ea.event_id = e.id
		 WHERE ea.user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count attended events: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.name, e.description, e.start_time, e.end_time, e.max_capacity, e.status
		 FROM events e
		 JOIN event_attendees ea ON ea.event_id = e.id
		 WHERE ea.user_id = $1
		 ORDER BY e.id
		 OFFSET $2 LIMIT $3`,
		userID, (page-1)*perPage, perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list attended events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Update fully replaces an event's fields. ErrNotFound when no row matched.
func (r *EventRepository) Update(ctx context.Context, id int64, req model.EventRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET name = $2, description = $3, start_time = $4, end_time = $5, max_capacity = $6, status = $7
		 WHERE id = $1`,
		id, req.Name, req.Description, req.StartTime, req.EndTime, req.MaxCapacity, req.Status,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event together with its attendance roster and sessions in
// a single transaction, so a failure mid-sequence rolls everything back.
// Session attendance rows are cleaned up by the ON DELETE CASCADE constraint.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete event attendees: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete event sessions: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CountAttendees returns the number of attendance rows for the event.
func (r *EventRepository) CountAttendees(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count event attendees: %w", err)
	}
	return count, nil
}
