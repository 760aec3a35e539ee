package session

import "time"

// Clock supplies the current time. The controller derives the authorized
// "today" for lock decisions from it, so tests can pin the date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
