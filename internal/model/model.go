// Package model defines the core domain types for the event management system.
package model

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// PublicUser is the projection of a User returned to clients.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// Event is a top-level time-boxed activity with capacity and a roster
// of registered users.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity"`
	Status      string    `json:"status"`
}

// Session is a sub-activity scoped to one event, with its own time window,
// capacity, and speaker.
type Session struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity"`
	Speaker     string    `json:"speaker"`
}

// SessionView augments a Session with its derived occupancy figures.
type SessionView struct {
	Session
	CurrentAttendees  int `json:"current_attendees"`
	AvailableCapacity int `json:"available_capacity"`
}

// AttendanceRecord is one row of the session attendance report, joined
// across users and sessions.
type AttendanceRecord struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	SessionID    int64     `json:"session_id"`
	SessionName  string    `json:"session_name"`
	SessionStart time.Time `json:"start_time"`
}

// EventPage is a paginated slice of events plus pagination metadata.
type EventPage struct {
	Events     []Event `json:"events"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}

// CredentialsRequest is the payload for registering or logging in.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// EventRequest is the payload for creating or fully replacing an event.
type EventRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	MaxCapacity int       `json:"max_capacity" validate:"required,min=1"`
	Status      string    `json:"status"`
}

// SessionRequest is the payload for creating or fully replacing a session.
type SessionRequest struct {
	EventID     int64     `json:"event_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	MaxCapacity int       `json:"max_capacity" validate:"required,min=1"`
	Speaker     string    `json:"speaker" validate:"required"`
}

// SpeakerRequest is the payload for assigning a speaker to a session.
type SpeakerRequest struct {
	Speaker string `json:"speaker" validate:"required"`
}

// AttendeeRequest is the payload for registering a user into a session.
type AttendeeRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// LoginResult bundles the issued token with the authenticated user.
type LoginResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
