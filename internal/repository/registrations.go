package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
)

// RegistrationRepository handles persistence for event and session attendance.
//
// Registration is a check-then-act sequence (duplicate check, capacity check,
// insert). Each booking runs inside a transaction that first locks the parent
// row with SELECT ... FOR UPDATE, so concurrent attempts serialize and the
// capacity ceiling cannot be overrun by two requests passing the check at the
// same time.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// eventBookingError applies the event admission rules to the gathered facts:
// no duplicate registration, and the attendee count stays under the ceiling.
func eventBookingError(maxCapacity, attendees int, alreadyRegistered bool) error {
	if alreadyRegistered {
		return ErrAlreadyRegistered
	}
	if attendees >= maxCapacity {
		return ErrEventFull
	}
	return nil
}

// sessionBookingError applies the session admission rules, in order: event
// membership, capacity ceiling, duplicate registration, then schedule
// conflict against the user's other sessions.
func sessionBookingError(session model.Session, inEvent bool, attendees int, alreadyIn bool, others []model.Session) error {
	if !inEvent {
		return ErrNotRegisteredForEvent
	}
	if attendees >= session.MaxCapacity {
		return ErrSessionFull
	}
	if alreadyIn {
		return ErrAlreadyInSession
	}
	for _, other := range others {
		if model.Overlaps(
			model.Naive(session.StartTime), model.Naive(session.EndTime),
			model.Naive(other.StartTime), model.Naive(other.EndTime),
		) {
			return ErrScheduleConflict
		}
	}
	return nil
}

// BookEvent registers a user for an event.
// Fails with ErrNotFound, ErrAlreadyRegistered, or ErrEventFull.
func (r *RegistrationRepository) BookEvent(ctx context.Context, userID, eventID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the event row so concurrent bookings for it serialize here.
	var maxCapacity int
	err = tx.QueryRow(ctx,
		`SELECT max_capacity FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&maxCapacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var alreadyRegistered bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&alreadyRegistered)
	if err != nil {
		return fmt.Errorf("check duplicate registration: %w", err)
	}

	var attendees int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID,
	).Scan(&attendees)
	if err != nil {
		return fmt.Errorf("count event attendees: %w", err)
	}

	if err := eventBookingError(maxCapacity, attendees, alreadyRegistered); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO event_attendees (user_id, event_id) VALUES ($1, $2)`,
		userID, eventID,
	); err != nil {
		return fmt.Errorf("insert event attendance: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CancelEvent removes a user's registration for an event.
// Fails with ErrNotFound when the event is absent and ErrNotRegistered when
// the user never joined it.
func (r *RegistrationRepository) CancelEvent(ctx context.Context, userID, eventID int64) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_attendees WHERE user_id = $1 AND event_id = $2`,
		userID, eventID,
	)
	if err != nil {
		return fmt.Errorf("delete event attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotRegistered
	}
	return nil
}

// BookSession registers a user into a session, enforcing in order:
//
//  1. the session exists (ErrNotFound)
//  2. the user is registered for the owning event (ErrNotRegisteredForEvent)
//  3. the session has remaining capacity (ErrSessionFull)
//  4. the user is not already in the session (ErrAlreadyInSession)
//  5. no other session the user attends overlaps this one (ErrScheduleConflict)
//
// The session row is locked for the duration of the transaction so the
// capacity check cannot race a concurrent booking.
func (r *RegistrationRepository) BookSession(ctx context.Context, userID, sessionID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize this user's bookings. Concurrent bookings into two different
	// overlapping sessions lock different session rows, so without this both
	// could pass the conflict check and commit.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("lock user bookings: %w", err)
	}

	var session model.Session
	err = tx.QueryRow(ctx,
		`SELECT id, event_id, start_time, end_time, max_capacity
		 FROM sessions WHERE id = $1 FOR UPDATE`,
		sessionID,
	).Scan(&session.ID, &session.EventID, &session.StartTime, &session.EndTime, &session.MaxCapacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock session row: %w", err)
	}

	var inEvent bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE user_id = $1 AND event_id = $2)`,
		userID, session.EventID,
	).Scan(&inEvent)
	if err != nil {
		return fmt.Errorf("check event registration: %w", err)
	}

	var attendees int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_attendees WHERE session_id = $1`, sessionID,
	).Scan(&attendees)
	if err != nil {
		return fmt.Errorf("count session attendees: %w", err)
	}

	var alreadyIn bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM session_attendees WHERE user_id = $1 AND session_id = $2)`,
		userID, sessionID,
	).Scan(&alreadyIn)
	if err != nil {
		return fmt.Errorf("check duplicate registration: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT s.start_time, s.end_time
		 FROM sessions s
		 JOIN session_attendees sa ON sa.session_id = s.id
		 WHERE sa.user_id = $1 AND s.id <> $2`,
		userID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("list registered sessions: %w", err)
	}
	var others []model.Session
	for rows.Next() {
		var other model.Session
		if err := rows.Scan(&other.StartTime, &other.EndTime); err != nil {
			rows.Close()
			return fmt.Errorf("scan registered session: %w", err)
		}
		others = append(others, other)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list registered sessions: %w", err)
	}

	if err := sessionBookingError(session, inEvent, attendees, alreadyIn, others); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO session_attendees (user_id, session_id) VALUES ($1, $2)`,
		userID, sessionID,
	); err != nil {
		return fmt.Errorf("insert session attendance: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
