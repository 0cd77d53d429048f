package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/adhocore/gronx"
)

// DefaultReplanSchedule re-plans at the top of every hour, which also lands on midnight
const DefaultReplanSchedule = "0 * * * *"

// Replanner re-runs Plan on a cron schedule while alarms are enabled,
// and cancels armed timers when they are not
type Replanner struct {
	sched *Scheduler
	expr  string

	mu      sync.Mutex
	timer   Timer
	stopped bool
}

// NewReplanner validates expr, a 5-field cron expression
func NewReplanner(sched *Scheduler, expr string) (*Replanner, error) {
	if expr == "" {
		expr = DefaultReplanSchedule
	}
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return nil, fmt.Errorf("invalid replan schedule %q, expected 5-field cron expression", expr)
	}
	return &Replanner{sched: sched, expr: expr}, nil
}

// Start arms the first tick. Ticks stop when ctx is done or Stop is called.
func (r *Replanner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = false
	r.armLocked(ctx)
}

func (r *Replanner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Replanner) tick(ctx context.Context) {
	if ctx.Err() != nil {
		r.Stop()
		return
	}

	settings, err := r.sched.settings.Load()
	switch {
	case err != nil:
		log.Printf("[PLAN] Replan skipped, settings unavailable: %v", err)
	case settings.Enabled:
		if err := r.sched.Plan(ctx); err != nil {
			log.Printf("[PLAN] Replan failed: %v", err)
		}
	default:
		r.sched.CancelAll()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped {
		r.armLocked(ctx)
	}
}

func (r *Replanner) armLocked(ctx context.Context) {
	now := r.sched.clock.Now()
	next, err := gronx.NextTickAfter(r.expr, now, false)
	if err != nil {
		log.Printf("[PLAN] No next replan for %q: %v", r.expr, err)
		return
	}
	r.timer = r.sched.clock.AfterFunc(clampDelay(next.Sub(now)), func() { r.tick(ctx) })
}
