// Package engine wires the stores, scheduler, notification dispatcher,
// background bridge and control socket into one runnable unit shared by the
// tray app and the headless daemon.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/borgmon/fast-alarm/pkg/bridge"
	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/control"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
	"github.com/borgmon/fast-alarm/pkg/store"
)

// DeniedWarning is shown while alarms are enabled but notifications are blocked
const DeniedWarning = "Notifications are blocked. Alarms will only show inside fast-alarm until you allow them in your system settings."

// Status is the in-app status surface
type Status interface {
	notify.StatusSink
	scheduler.StatusView
}

// Options configures an Engine
type Options struct {
	KV             store.KV
	Source         calendar.Source
	Direct         notify.DirectChannel
	Prompter       notify.Prompter
	Status         Status // nil logs instead
	SocketPath     string // empty disables the control socket
	RecoveryPick   scheduler.PickPolicy
	ReplanSchedule string // cron expression, empty for hourly
	Clock          scheduler.Clock
}

// Engine runs the alarm scheduler for one process
type Engine struct {
	Settings    *store.SettingsStore
	Records     *store.RecordStore
	Permissions *notify.Permissions
	Scheduler   *scheduler.Scheduler

	status     Status
	bus        *bridge.Bus
	worker     *bridge.Worker
	port       *bridge.MainPort
	replanner  *scheduler.Replanner
	socketPath string

	mu      sync.Mutex
	control *control.Server
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(opts Options) (*Engine, error) {
	if opts.KV == nil || opts.Source == nil || opts.Direct == nil {
		return nil, errors.New("engine needs a KV store, an event time source and a direct channel")
	}
	if opts.Prompter == nil {
		opts.Prompter = notify.StaticPrompter(false)
	}
	if opts.Status == nil {
		opts.Status = LogStatus{}
	}
	if opts.Clock == nil {
		opts.Clock = scheduler.RealClock()
	}

	e := &Engine{
		Settings:    store.NewSettingsStore(opts.KV),
		Records:     store.NewRecordStore(opts.KV),
		Permissions: notify.NewPermissions(opts.KV, opts.Prompter),
		status:      opts.Status,
		bus:         bridge.NewBus(bridge.DefaultQueueSize),
		socketPath:  opts.SocketPath,
	}

	gated := notify.NewGated(e.Permissions, opts.Direct)
	e.worker = bridge.NewWorker(e.bus.Background(), gated, bridge.WithNow(opts.Clock.Now))
	e.port = bridge.NewMainPort(e.bus.Main(), e.worker.Connected)
	dispatcher := notify.NewDispatcher(e.port, gated, opts.Status)

	e.Scheduler = scheduler.New(e.Settings, e.Records, opts.Source, dispatcher,
		scheduler.WithClock(opts.Clock),
		scheduler.WithStatus(opts.Status),
		scheduler.WithObserver(e.port),
		scheduler.WithRecoveryPick(opts.RecoveryPick),
	)
	e.port.Attach(e.Scheduler)

	replanner, err := scheduler.NewReplanner(e.Scheduler, opts.ReplanSchedule)
	if err != nil {
		return nil, err
	}
	e.replanner = replanner

	return e, nil
}

// Start runs recovery, the first plan, the replanner, the background worker
// and the control socket. It returns once everything is running.
func (e *Engine) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.worker.Run(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.port.Run(ctx)
	}()

	if _, err := e.Scheduler.Recover(ctx); err != nil {
		log.Printf("[RECOVERY] Skipped: %v", err)
	}
	if err := e.Scheduler.Plan(ctx); err != nil {
		log.Printf("[PLAN] Initial plan failed: %v", err)
	}
	e.replanner.Start(ctx)
	e.warnIfDenied()

	if e.socketPath == "" {
		return nil
	}
	srv, err := control.Listen(e.socketPath, e.Scheduler)
	if err != nil {
		return fmt.Errorf("start control socket: %w", err)
	}
	e.mu.Lock()
	e.control = srv
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		srv.Serve(ctx)
	}()
	return nil
}

// SaveSettings is the explicit save flow. Enabling alarms asks for
// notification permission first; a denial still saves the settings.
func (e *Engine) SaveSettings(ctx context.Context, settings models.AlarmSettings) (models.AlarmSettings, error) {
	if settings.Enabled {
		_, err := e.Permissions.Request(ctx)
		switch {
		case errors.Is(err, notify.ErrPermissionDenied):
			e.status.Warn(DeniedWarning)
		case err != nil:
			log.Printf("[NOTIFY] Permission request failed: %v", err)
		}
	}

	saved, err := e.Settings.Save(settings)
	if err != nil {
		return saved, err
	}
	if err := e.Scheduler.Plan(ctx); err != nil {
		return saved, fmt.Errorf("plan after save: %w", err)
	}
	return saved, nil
}

// CheckNow nudges the background worker and delivers anything overdue
func (e *Engine) CheckNow(ctx context.Context) int {
	e.port.CheckNow()
	return e.Scheduler.Sweep(ctx)
}

// Snapshot returns the current plan
func (e *Engine) Snapshot() scheduler.Snapshot {
	return e.Scheduler.Snapshot()
}

// Stop cancels every timer and waits for background goroutines
func (e *Engine) Stop() {
	e.replanner.Stop()
	e.Scheduler.CancelAll()

	e.mu.Lock()
	cancel, srv := e.cancel, e.control
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if srv != nil {
		srv.Close()
	}
	e.wg.Wait()
}

func (e *Engine) warnIfDenied() {
	settings, err := e.Settings.Load()
	if err != nil || !settings.Enabled {
		return
	}
	if e.Permissions.Current() == notify.PermissionDenied {
		e.status.Warn(DeniedWarning)
	}
}

// LogStatus is the Status used when no UI is attached
type LogStatus struct {
	notify.LogStatus
}

func (LogStatus) Refresh() {}

func (LogStatus) Announce(title, summary string) {
	log.Printf("[RECOVERY] %s: %s", title, summary)
}
