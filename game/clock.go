package game

import "time"

// Clock abstracts wall time and deferred callbacks so phase timers can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) TimerHandle
}

// TimerHandle is an opaque handle to a scheduled callback. Stop is
// best-effort: a callback already in flight is blocked by the phase and
// generation guards, not by cancellation.
type TimerHandle interface {
	Stop() bool
}

type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) TimerHandle {
	return time.AfterFunc(d, f)
}
