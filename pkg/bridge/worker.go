package bridge

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/planner"
)

const (
	DefaultCheckInterval = 30 * time.Second
	DefaultWakeInterval  = 15 * time.Minute
)

// WorkerOption configures a Worker
type WorkerOption func(*Worker)

// WithIntervals sets how often the next alarm is checked and how often the
// main context is nudged to sweep
func WithIntervals(check, wake time.Duration) WorkerOption {
	return func(w *Worker) {
		w.checkEvery = check
		w.wakeEvery = wake
	}
}

// WithNow replaces the worker's time source
func WithNow(now func() time.Time) WorkerOption {
	return func(w *Worker) { w.now = now }
}

// Worker is the background context. It tracks the next pending alarm, tells
// the main context when it comes due, and shows notifications handed to it.
type Worker struct {
	end    *Endpoint
	direct notify.DirectChannel

	checkEvery time.Duration
	wakeEvery  time.Duration
	now        func() time.Time

	connected atomic.Bool

	mu       sync.Mutex
	settings models.AlarmSettings
	next     *time.Time
	nextKind models.AlarmKind
}

func NewWorker(end *Endpoint, direct notify.DirectChannel, opts ...WorkerOption) *Worker {
	w := &Worker{
		end:        end,
		direct:     direct,
		checkEvery: DefaultCheckInterval,
		wakeEvery:  DefaultWakeInterval,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Connected reports whether Run is active
func (w *Worker) Connected() bool {
	return w.connected.Load()
}

// Run processes messages until ctx is done
func (w *Worker) Run(ctx context.Context) {
	w.connected.Store(true)
	defer w.connected.Store(false)

	check := time.NewTicker(w.checkEvery)
	defer check.Stop()
	wake := time.NewTicker(w.wakeEvery)
	defer wake.Stop()

	w.end.Send(RequestAlarmData{})
	log.Printf("[BRIDGE] Background worker started")

	for {
		select {
		case <-ctx.Done():
			log.Printf("[BRIDGE] Background worker stopped")
			return
		case data := <-w.end.Inbox():
			m, err := Decode(data)
			if err != nil {
				log.Printf("[BRIDGE] Background dropped message: %v", err)
				continue
			}
			w.handle(m)
		case <-check.C:
			w.check()
		case <-wake.C:
			w.end.Send(CheckAlarms{})
			w.check()
		}
	}
}

func (w *Worker) handle(m Message) {
	switch msg := m.(type) {
	case UpdateSettings:
		w.mu.Lock()
		w.settings = msg.Settings
		w.next = msg.NextAlarmInstant
		w.nextKind = msg.NextAlarmType
		w.mu.Unlock()
		w.check()
	case CheckNow:
		w.check()
	case ShowNotification:
		if err := w.direct.Show(msg.Notification()); err != nil {
			log.Printf("[BRIDGE] Could not show %q: %v", msg.Title, err)
		}
	default:
		log.Printf("[BRIDGE] Background ignored %s", m.Type())
	}
}

// check sends TriggerAlarm once the tracked alarm is due
func (w *Worker) check() {
	w.mu.Lock()
	if !w.settings.Enabled || w.next == nil || w.now().Before(*w.next) {
		w.mu.Unlock()
		return
	}
	kind, settings := w.nextKind, w.settings
	w.next = nil
	w.mu.Unlock()

	title, message := planner.Describe(kind, settings.PreMinutes(kind.Event()))
	w.end.Send(TriggerAlarm{AlarmType: kind, Title: title, Message: message})
}
