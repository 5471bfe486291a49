// Package clock abstracts "today" so that due dates and overdue checks are
// deterministic in tests.
package clock

import "time"

// Clock provides the current date. All dates in the system are whole days
// (midnight UTC); time-of-day never matters.
type Clock interface {
	Today() time.Time
}

// Date returns the given calendar day at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// System reads the real system clock.
type System struct{}

// Today returns the current calendar day at midnight UTC.
func (System) Today() time.Time {
	now := time.Now().UTC()
	return Date(now.Year(), now.Month(), now.Day())
}

// Fixed is an advanceable clock for tests.
type Fixed struct {
	current time.Time
}

// NewFixed creates a clock frozen at the given date.
func NewFixed(start time.Time) *Fixed {
	return &Fixed{current: start}
}

// Today returns the simulated current date.
func (f *Fixed) Today() time.Time {
	return f.current
}

// Advance moves the clock forward by the given number of days.
func (f *Fixed) Advance(days int) {
	f.current = f.current.AddDate(0, 0, days)
}
