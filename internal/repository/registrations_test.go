package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
)

func at(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func bookedSession(start, end time.Time) model.Session {
	return model.Session{
		ID:          1,
		EventID:     1,
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: 20,
	}
}

func TestEventBookingError(t *testing.T) {
	tests := []struct {
		name        string
		maxCapacity int
		attendees   int
		duplicate   bool
		want        error
	}{
		{"room left", 50, 30, false, nil},
		{"last seat", 50, 49, false, nil},
		{"exactly full", 50, 50, false, ErrEventFull},
		{"over capacity", 50, 51, false, ErrEventFull},
		{"duplicate wins over capacity", 50, 50, true, ErrAlreadyRegistered},
		{"duplicate with room left", 50, 10, true, ErrAlreadyRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eventBookingError(tt.maxCapacity, tt.attendees, tt.duplicate)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSessionBookingError(t *testing.T) {
	target := bookedSession(at(10), at(12))

	tests := []struct {
		name      string
		inEvent   bool
		attendees int
		alreadyIn bool
		others    []model.Session
		want      error
	}{
		{"admitted", true, 10, false, nil, nil},
		{"not in event", false, 10, false, nil, ErrNotRegisteredForEvent},
		{"membership checked before capacity", false, 20, false, nil, ErrNotRegisteredForEvent},
		{"exactly full", true, 20, false, nil, ErrSessionFull},
		{"capacity checked before duplicate", true, 20, true, nil, ErrSessionFull},
		{"already in session", true, 10, true, nil, ErrAlreadyInSession},
		{"overlapping other session", true, 10, false,
			[]model.Session{bookedSession(at(11), at(13))}, ErrScheduleConflict},
		{"other session contains this one", true, 10, false,
			[]model.Session{bookedSession(at(9), at(14))}, ErrScheduleConflict},
		{"back to back is no conflict", true, 10, false,
			[]model.Session{bookedSession(at(12), at(14)), bookedSession(at(8), at(10))}, nil},
		{"disjoint other sessions", true, 10, false,
			[]model.Session{bookedSession(at(14), at(15))}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sessionBookingError(target, tt.inEvent, tt.attendees, tt.alreadyIn, tt.others)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSessionBookingErrorStripsOffsets(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	target := bookedSession(
		time.Date(2026, 9, 1, 10, 0, 0, 0, zone),
		time.Date(2026, 9, 1, 12, 0, 0, 0, zone),
	)

	// Same wall-clock overlap submitted in a different offset still conflicts.
	err := sessionBookingError(target, true, 0, false,
		[]model.Session{bookedSession(at(11), at(13))})
	assert.ErrorIs(t, err, ErrScheduleConflict)
}
