package scheduler

import "time"

// maxTimerDelay caps how far ahead a single timer is armed. A timer that
// wakes before its alarm re-arms for the remainder.
const maxTimerDelay = 24 * time.Hour

// Timer is a pending callback. Stop reports whether it prevented the call.
type Timer interface {
	Stop() bool
}

// Clock is the time source the scheduler arms timers on
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock returns the wall clock
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func clampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > maxTimerDelay {
		return maxTimerDelay
	}
	return d
}
