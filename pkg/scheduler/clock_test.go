package scheduler

import (
	"sync"
	"testing"
	"time"
)

// fakeClock only moves when told to. Advance fires due timers in instant order
// with Now set to each timer's instant.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	done    bool
	stopped bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, running every timer that comes due
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.done || t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()

		next.f()
	}
}

// Set jumps the clock without running timers, like a host waking from sleep
func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// pending counts timers that have neither fired nor been stopped
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done && !t.stopped {
			n++
		}
	}
	return n
}

func TestClampDelay(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{-time.Minute, 0},
		{0, 0},
		{90 * time.Minute, 90 * time.Minute},
		{30 * time.Hour, maxTimerDelay},
	}
	for _, c := range cases {
		if got := clampDelay(c.in); got != c.want {
			t.Errorf("clampDelay(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
