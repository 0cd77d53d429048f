package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/planner"
)

// SettingsLoader reads the current alarm settings
type SettingsLoader interface {
	Load() (models.AlarmSettings, error)
}

// RecordStore persists the day's alarm record
type RecordStore interface {
	Load() (*models.AlarmRecord, error)
	Save(record *models.AlarmRecord) error
	Delete() error
}

// Notifier delivers a notification for a fired or recovered alarm
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// StatusView is the in-app status surface
type StatusView interface {
	Refresh()
	Announce(title, summary string)
}

// Observer is told about the next pending alarm whenever the plan changes
type Observer interface {
	Planned(settings models.AlarmSettings, next *models.PlannedAlarm)
}

// Snapshot is a copy of the scheduler's current plan
type Snapshot struct {
	Settings   models.AlarmSettings
	Date       string
	CalendarID string
	Alarms     []models.PlannedAlarm
	Armed      int
}

// Option configures a Scheduler
type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithStatus(v StatusView) Option {
	return func(s *Scheduler) { s.status = v }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// WithRecoveryWindow sets the age below which a missed alarm is still surfaced
func WithRecoveryWindow(d time.Duration) Option {
	return func(s *Scheduler) { s.recoveryWindow = d }
}

// WithRecoveryPick selects which recovered alarm gets the notification
func WithRecoveryPick(p PickPolicy) Option {
	return func(s *Scheduler) { s.pick = p }
}

// Scheduler owns the armed timers for today's alarms
type Scheduler struct {
	mu sync.Mutex

	clock          Clock
	settings       SettingsLoader
	records        RecordStore
	source         calendar.Source
	notifier       Notifier
	status         StatusView
	observer       Observer
	recoveryWindow time.Duration
	pick           PickPolicy

	gen        uint64
	timers     map[models.AlarmKind]Timer
	alarms     []models.PlannedAlarm
	current    models.AlarmSettings
	planDate   string
	calendarID string
}

func New(settings SettingsLoader, records RecordStore, source calendar.Source, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:          RealClock(),
		settings:       settings,
		records:        records,
		source:         source,
		notifier:       notifier,
		status:         nopStatus{},
		observer:       nopObserver{},
		recoveryWindow: DefaultRecoveryWindow,
		pick:           PickFirstListed,
		timers:         make(map[models.AlarmKind]Timer),
		current:        models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan cancels every armed timer and plans today's alarms from scratch.
// Disabled alarms delete the stored record. A day without event times arms
// nothing and leaves the record alone. While enabled, alarms of the current
// plan that are already due are delivered first so a replan landing on the
// same instant cannot drop them.
func (s *Scheduler) Plan(ctx context.Context) error {
	due, err := s.plan(ctx)
	if len(due) > 0 {
		log.Printf("[FIRE] Replan found %d due alarm(s)", len(due))
		s.deliver(ctx, due...)
	}
	return err
}

func (s *Scheduler) plan(ctx context.Context) ([]models.PlannedAlarm, error) {
	s.mu.Lock()

	settings, err := s.settings.Load()
	if err != nil {
		s.cancelLocked()
		s.mu.Unlock()
		log.Printf("[PLAN] Failed to load settings: %v", err)
		return nil, err
	}

	var due []models.PlannedAlarm
	if settings.Enabled {
		due = s.takeDueLocked()
	}
	s.cancelLocked()
	s.current = settings

	if !settings.Enabled {
		if err := s.records.Delete(); err != nil {
			log.Printf("[PLAN] Failed to delete alarm record: %v", err)
		}
		s.mu.Unlock()
		log.Printf("[PLAN] Alarms disabled, nothing armed")
		s.observer.Planned(settings, nil)
		return nil, nil
	}

	now := s.clock.Now()
	times, err := s.source.DayTimes(ctx, now)
	if err != nil {
		s.mu.Unlock()
		log.Printf("[PLAN] Failed to read event times: %v", err)
		return due, err
	}
	if times == nil {
		s.mu.Unlock()
		log.Printf("[PLAN] No event times for %s, nothing armed", models.DateKey(now))
		s.observer.Planned(settings, nil)
		return due, nil
	}

	s.alarms = planner.Plan(now, times, settings)
	s.planDate = models.DateKey(now)
	s.calendarID = times.CalendarID
	for _, alarm := range s.alarms {
		s.armLocked(alarm, s.gen)
		log.Printf("[PLAN] Armed %s at %s", alarm.Kind, alarm.Instant.Format("15:04"))
	}

	record := models.NewAlarmRecord(s.planDate, s.calendarID, s.alarms)
	if err := s.records.Save(record); err != nil {
		log.Printf("[PLAN] Failed to save alarm record: %v", err)
	}

	next, date := s.nextLocked(), s.planDate
	s.mu.Unlock()

	log.Printf("[PLAN] %d alarm(s) planned for %s", len(record.Alarms), date)
	s.observer.Planned(settings, next)
	return due, nil
}

// CancelAll stops every armed timer. The stored record is not touched.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// TriggerAlarm delivers kind if it is planned, due and not yet triggered.
// It reports whether a notification was sent.
func (s *Scheduler) TriggerAlarm(ctx context.Context, kind models.AlarmKind) bool {
	s.mu.Lock()
	idx := s.indexLocked(kind)
	if idx < 0 || s.alarms[idx].Triggered || s.alarms[idx].Instant.After(s.clock.Now()) {
		s.mu.Unlock()
		return false
	}
	alarm := s.takeLocked(idx)
	s.mu.Unlock()

	s.deliver(ctx, alarm)
	return true
}

// Sweep delivers every planned alarm whose instant has passed without firing.
// It returns the number delivered.
func (s *Scheduler) Sweep(ctx context.Context) int {
	s.mu.Lock()
	due := s.takeDueLocked()
	s.mu.Unlock()

	if len(due) > 0 {
		log.Printf("[FIRE] Sweep found %d overdue alarm(s)", len(due))
		s.deliver(ctx, due...)
	}
	return len(due)
}

// Snapshot returns a copy of the current plan
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := make([]models.PlannedAlarm, len(s.alarms))
	copy(alarms, s.alarms)
	return Snapshot{
		Settings:   s.current,
		Date:       s.planDate,
		CalendarID: s.calendarID,
		Alarms:     alarms,
		Armed:      len(s.timers),
	}
}

// Next returns the earliest alarm that has not fired, or nil
func (s *Scheduler) Next() *models.PlannedAlarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

// ArmedCount returns the number of pending timers
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) fire(kind models.AlarmKind, gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	idx := s.indexLocked(kind)
	if idx < 0 || s.alarms[idx].Triggered {
		delete(s.timers, kind)
		s.mu.Unlock()
		return
	}
	if s.clock.Now().Before(s.alarms[idx].Instant) {
		// Woke from a clamped delay
		s.armLocked(s.alarms[idx], gen)
		s.mu.Unlock()
		return
	}
	alarm := s.takeLocked(idx)
	s.mu.Unlock()

	log.Printf("[FIRE] %s (%s)", alarm.Kind, alarm.Instant.Format("15:04"))
	s.deliver(context.Background(), alarm)
}

// deliver notifies for each alarm, then refreshes the status surface once
func (s *Scheduler) deliver(ctx context.Context, alarms ...models.PlannedAlarm) {
	for _, alarm := range alarms {
		s.notifier.Notify(ctx, models.NotificationFor(alarm))
	}
	s.status.Refresh()

	s.mu.Lock()
	settings, next := s.current, s.nextLocked()
	s.mu.Unlock()
	s.observer.Planned(settings, next)
}

// takeDueLocked takes every untriggered alarm whose instant has passed
func (s *Scheduler) takeDueLocked() []models.PlannedAlarm {
	now := s.clock.Now()
	due := []models.PlannedAlarm{}
	for i := range s.alarms {
		if s.alarms[i].Triggered || s.alarms[i].Instant.After(now) {
			continue
		}
		due = append(due, s.takeLocked(i))
	}
	return due
}

// takeLocked stops the alarm's timer, marks it triggered in memory and in
// the stored record, and returns a copy
func (s *Scheduler) takeLocked(idx int) models.PlannedAlarm {
	alarm := &s.alarms[idx]
	if t, ok := s.timers[alarm.Kind]; ok {
		t.Stop()
		delete(s.timers, alarm.Kind)
	}
	alarm.Triggered = true

	record, err := s.records.Load()
	if err != nil {
		log.Printf("[FIRE] Failed to load alarm record: %v", err)
	}
	if record.IsFor(s.planDate) {
		record.MarkTriggered(alarm.Kind, alarm.Instant)
	} else {
		record = models.NewAlarmRecord(s.planDate, s.calendarID, s.alarms)
		for _, a := range s.alarms {
			if a.Triggered {
				record.MarkTriggered(a.Kind, a.Instant)
			}
		}
	}
	if err := s.records.Save(record); err != nil {
		log.Printf("[FIRE] Failed to save alarm record: %v", err)
	}

	return *alarm
}

func (s *Scheduler) armLocked(alarm models.PlannedAlarm, gen uint64) {
	kind := alarm.Kind
	delay := clampDelay(alarm.Instant.Sub(s.clock.Now()))
	s.timers[kind] = s.clock.AfterFunc(delay, func() { s.fire(kind, gen) })
}

func (s *Scheduler) cancelLocked() {
	for kind, t := range s.timers {
		t.Stop()
		delete(s.timers, kind)
	}
	s.alarms = nil
	s.gen++
}

func (s *Scheduler) indexLocked(kind models.AlarmKind) int {
	for i := range s.alarms {
		if s.alarms[i].Kind == kind {
			return i
		}
	}
	return -1
}

func (s *Scheduler) nextLocked() *models.PlannedAlarm {
	for i := range s.alarms {
		if !s.alarms[i].Triggered {
			next := s.alarms[i]
			return &next
		}
	}
	return nil
}

type nopStatus struct{}

func (nopStatus) Refresh()                {}
func (nopStatus) Announce(string, string) {}

type nopObserver struct{}

func (nopObserver) Planned(models.AlarmSettings, *models.PlannedAlarm) {}
