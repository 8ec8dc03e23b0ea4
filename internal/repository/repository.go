// Package repository implements all database queries for the event management
// system. It uses pgx directly (no ORM) for transparency and performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrAlreadyRegistered is returned when a user registers twice for the same event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event has reached its maximum capacity")

// ErrNotRegistered is returned when unregistering from an event the user
// never joined.
var ErrNotRegistered = errors.New("not registered for this event")

// ErrNotRegisteredForEvent is returned when a user tries to join a session
// without being registered for its owning event.
var ErrNotRegisteredForEvent = errors.New("user is not registered for the owning event")

// ErrSessionFull is returned when a session has no remaining capacity.
var ErrSessionFull = errors.New("session has reached its maximum capacity")

// ErrAlreadyInSession is returned when a user registers twice for the same session.
var ErrAlreadyInSession = errors.New("already registered for this session")

// ErrScheduleConflict is returned when a session overlaps another session the
// user is registered for.
var ErrScheduleConflict = errors.New("overlaps another session the user is registered for")

const uniqueViolationCode = "23505"
