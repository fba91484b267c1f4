// Package clock provides the ports.Clock implementations.
package clock

import "time"

// System reads the wall clock and normalizes it to UTC.
type System struct{}

// Now returns the current instant in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Tests use it to make defaulted
// timestamps assertable.
type Fixed struct {
	instant time.Time
}

// NewFixed creates a clock pinned to instant.
func NewFixed(instant time.Time) *Fixed {
	return &Fixed{instant: instant}
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.instant
}
