package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
)

const sessionColumns = `id, event_id, name, description, start_time, end_time, max_capacity, speaker`

// SessionRepository handles persistence for sessions.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func collectSessions(rows pgx.Rows) ([]model.Session, error) {
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.EventID, &s.Name, &s.Description, &s.StartTime, &s.EndTime, &s.MaxCapacity, &s.Speaker); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Create inserts a new session and returns it with its assigned id.
func (r *SessionRepository) Create(ctx context.Context, req model.SessionRequest) (*model.Session, error) {
	s := &model.Session{
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		Speaker:     req.Speaker,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO sessions (event_id, name, description, start_time, end_time, max_capacity, speaker)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		req.EventID, req.Name, req.Description, req.StartTime, req.EndTime, req.MaxCapacity, req.Speaker,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

// GetByID returns a single session or ErrNotFound.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.EventID, &s.Name, &s.Description, &s.StartTime, &s.EndTime, &s.MaxCapacity, &s.Speaker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// ListByEvent returns all sessions belonging to an event.
func (r *SessionRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE event_id = $1 ORDER BY start_time`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return collectSessions(rows)
}

// ListViews returns all sessions with their derived occupancy figures.
func (r *SessionRepository) ListViews(ctx context.Context) ([]model.SessionView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.event_id, s.name, s.description, s.start_time, s.end_time, s.max_capacity, s.speaker,
		        COUNT(sa.user_id) AS attendees
		 FROM sessions s
		 LEFT JOIN session_attendees sa ON sa.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list session views: %w", err)
	}
	defer rows.Close()

	var views []model.SessionView
	for rows.Next() {
		var v model.SessionView
		if err := rows.Scan(&v.ID, &v.EventID, &v.Name, &v.Description, &v.StartTime, &v.EndTime, &v.MaxCapacity, &v.Speaker, &v.CurrentAttendees); err != nil {
			return nil, fmt.Errorf("scan session view: %w", err)
		}
		v.AvailableCapacity = v.MaxCapacity - v.CurrentAttendees
		views = append(views, v)
	}
	return views, rows.Err()
}

// Update fully replaces a session's fields. ErrNotFound when no row matched.
func (r *SessionRepository) Update(ctx context.Context, id int64, req model.SessionRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sessions
		 SET event_id = $2, name = $3, description = $4, start_time = $5, end_time = $6, max_capacity = $7, speaker = $8
		 WHERE id = $1`,
		id, req.EventID, req.Name, req.Description, req.StartTime, req.EndTime, req.MaxCapacity, req.Speaker,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session. Attendance rows are cleaned up by the
// ON DELETE CASCADE constraint.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignSpeaker sets the speaker field. ErrNotFound when no row matched.
func (r *SessionRepository) AssignSpeaker(ctx context.Context, id int64, speaker string) error {
	tag, err := r.db.Exec(ctx, `UPDATE sessions SET speaker = $2 WHERE id = $1`, id, speaker)
	if err != nil {
		return fmt.Errorf("assign speaker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAttendees returns the number of attendance rows for the session.
func (r *SessionRepository) CountAttendees(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_attendees WHERE session_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count session attendees: %w", err)
	}
	return count, nil
}

// AttendanceRecords returns every session attendance row joined with the
// attending user and the session details.
func (r *SessionRepository) AttendanceRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.email, s.id, s.name, s.start_time
		 FROM session_attendees sa
		 JOIN users u ON u.id = sa.user_id
		 JOIN sessions s ON s.id = sa.session_id
		 ORDER BY s.start_time, u.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.UserID, &rec.Email, &rec.SessionID, &rec.SessionName, &rec.SessionStart); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
