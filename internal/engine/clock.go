package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Callers derive the reference CalendarDate from it; the collector never reads the wall clock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. The CLI uses it for --date.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Today returns the local calendar date reported by c.
func Today(c Clock) CalendarDate {
	return DateOf(c.Now())
}
