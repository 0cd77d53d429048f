package bridge

import (
	"context"
	"log"
	"sync"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
)

// Handler is the main-context side that owns the alarms
type Handler interface {
	TriggerAlarm(ctx context.Context, kind models.AlarmKind) bool
	Sweep(ctx context.Context) int
	Snapshot() scheduler.Snapshot
}

// MainPort is the main context's end of the bridge. It is the dispatcher's
// background channel and the scheduler's plan observer, and routes messages
// from the background context to the Handler.
type MainPort struct {
	end       *Endpoint
	connected func() bool

	mu      sync.Mutex
	handler Handler
}

// NewMainPort creates a port. connected reports whether the background side is running.
func NewMainPort(end *Endpoint, connected func() bool) *MainPort {
	return &MainPort{end: end, connected: connected}
}

// Attach sets the handler messages are routed to
func (p *MainPort) Attach(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

func (p *MainPort) Connected() bool {
	return p.connected()
}

func (p *MainPort) Post(n models.Notification) error {
	return p.end.Send(ShowNotificationFor(n))
}

// Planned publishes the next pending alarm to the background context
func (p *MainPort) Planned(settings models.AlarmSettings, next *models.PlannedAlarm) {
	msg := UpdateSettings{Settings: settings}
	if next != nil {
		instant := next.Instant
		msg.NextAlarmInstant = &instant
		msg.NextAlarmType = next.Kind
	}
	p.end.Send(msg)
}

// CheckNow asks the background context to check immediately
func (p *MainPort) CheckNow() {
	p.end.Send(CheckNow{})
}

// Run routes messages from the background context until ctx is done
func (p *MainPort) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-p.end.Inbox():
			m, err := Decode(data)
			if err != nil {
				log.Printf("[BRIDGE] Main dropped message: %v", err)
				continue
			}
			p.handle(ctx, m)
		}
	}
}

func (p *MainPort) handle(ctx context.Context, m Message) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h == nil {
		log.Printf("[BRIDGE] No handler attached, dropped %s", m.Type())
		return
	}

	switch msg := m.(type) {
	case TriggerAlarm:
		if h.TriggerAlarm(ctx, msg.AlarmType) {
			log.Printf("[BRIDGE] Delivered %s from background check", msg.AlarmType)
		}
	case RequestAlarmData:
		snap := h.Snapshot()
		p.Planned(snap.Settings, nextPending(snap.Alarms))
	case CheckAlarms:
		h.Sweep(ctx)
	default:
		log.Printf("[BRIDGE] Main ignored %s", m.Type())
	}
}

func nextPending(alarms []models.PlannedAlarm) *models.PlannedAlarm {
	for i := range alarms {
		if !alarms[i].Triggered {
			return &alarms[i]
		}
	}
	return nil
}
