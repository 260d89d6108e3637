package dispatch

import "time"

// Clock abstracts the time source so offer-window timeouts are testable.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall-clock implementation used outside tests.
func RealClock() Clock { return realClock{} }
