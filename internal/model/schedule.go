package model

import "time"

// Naive strips the zone from t, keeping its wall-clock fields. Event and
// session windows are always compared as naive instants so that ranges
// submitted with mismatched offset representations line up with what is
// stored.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// WithinWindow reports whether [start, end) lies fully inside [winStart, winEnd).
func WithinWindow(start, end, winStart, winEnd time.Time) bool {
	return !start.Before(winStart) && !end.After(winEnd)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
