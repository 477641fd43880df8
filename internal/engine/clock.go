package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// All date projections (next occurrences, due dates, reminder offsets) are
// computed relative to a Clock, never to time.Now() directly.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
