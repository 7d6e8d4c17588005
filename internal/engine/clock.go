package engine

import "time"

// Clock tells the engine what "today" is. Tests pin it; the app uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// nowFrom returns c.Now(), or the wall clock when c is nil.
func nowFrom(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}
