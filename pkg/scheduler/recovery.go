package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/planner"
)

// DefaultRecoveryWindow is how old a missed alarm may be and still be surfaced
const DefaultRecoveryWindow = time.Hour

// PickPolicy chooses which recovered alarm gets the notification
type PickPolicy int

const (
	PickFirstListed PickPolicy = iota // first recoverable entry in record order
	PickLatest                        // chronologically latest recoverable entry
)

// ParsePickPolicy maps a config value to a policy; anything unknown is PickFirstListed
func ParsePickPolicy(value string) PickPolicy {
	if strings.EqualFold(strings.TrimSpace(value), "latest") {
		return PickLatest
	}
	return PickFirstListed
}

func (p PickPolicy) String() string {
	if p == PickLatest {
		return "latest"
	}
	return "first"
}

// MissedAlarm is a record entry that passed while the process was not running
type MissedAlarm struct {
	Kind    models.AlarmKind
	Instant time.Time
	Age     time.Duration
	State   models.AlarmState
}

// RecoveryReport describes what Recover found
type RecoveryReport struct {
	Discarded  bool          // record was for another day
	Recovered  []MissedAlarm // surfaced to the user, still MissedRecoverable
	Suppressed []MissedAlarm // too old, marked silently
	Surfaced   *MissedAlarm  // the alarm the notification was sent for
}

// Recover inspects the stored record for alarms that passed while the process
// was down. It must run once at start, before the first Plan.
func (s *Scheduler) Recover(ctx context.Context) (RecoveryReport, error) {
	report := RecoveryReport{}

	s.mu.Lock()
	record, err := s.records.Load()
	if err != nil {
		s.mu.Unlock()
		log.Printf("[RECOVERY] Failed to load alarm record: %v", err)
		return report, err
	}
	if record == nil {
		s.mu.Unlock()
		return report, nil
	}

	now := s.clock.Now()
	if !record.IsFor(models.DateKey(now)) {
		if err := s.records.Delete(); err != nil {
			log.Printf("[RECOVERY] Failed to delete stale record: %v", err)
		}
		s.mu.Unlock()
		log.Printf("[RECOVERY] Discarded record for %s", record.Date)
		report.Discarded = true
		return report, nil
	}

	changed := false
	for i := range record.Alarms {
		entry := &record.Alarms[i]
		if entry.Triggered || entry.Time.After(now) {
			continue
		}

		missed := MissedAlarm{Kind: entry.Type, Instant: entry.Time, Age: now.Sub(entry.Time)}
		if missed.Age < s.recoveryWindow {
			missed.State = models.AlarmStateMissedRecoverable
			report.Recovered = append(report.Recovered, missed)
		} else {
			missed.State = models.AlarmStateMissedStale
			report.Suppressed = append(report.Suppressed, missed)
		}
		entry.Triggered = true
		changed = true
	}

	if changed {
		if err := s.records.Save(record); err != nil {
			log.Printf("[RECOVERY] Failed to save alarm record: %v", err)
		}
	}

	settings, err := s.settings.Load()
	if err != nil {
		log.Printf("[RECOVERY] Failed to load settings, using defaults for messages: %v", err)
	}
	pick := s.pick
	s.mu.Unlock()

	for i := range report.Suppressed {
		m := &report.Suppressed[i]
		m.State = m.State.Settle()
		log.Printf("[RECOVERY] Suppressed %s, missed %d min ago", m.Kind, int(m.Age.Minutes()))
	}
	if len(report.Recovered) == 0 {
		return report, nil
	}

	summary := make([]string, 0, len(report.Recovered))
	for _, m := range report.Recovered {
		summary = append(summary, fmt.Sprintf("%s (%d min ago)", planner.Label(m.Kind), int(m.Age.Minutes())))
	}
	s.status.Announce("Missed alarms", strings.Join(summary, ", "))

	surfaced := pickMissed(report.Recovered, pick)
	surfaced.State = surfaced.State.Settle()
	report.Surfaced = &surfaced

	title, _ := planner.Describe(surfaced.Kind, settings.PreMinutes(surfaced.Kind.Event()))
	s.notifier.Notify(ctx, models.Notification{
		Title:   "Missed: " + title,
		Message: fmt.Sprintf("%s was %d min ago.", planner.Label(surfaced.Kind), int(surfaced.Age.Minutes())),
		Kind:    surfaced.Kind,
		Tag:     "fast-alarm-missed",
	})
	log.Printf("[RECOVERY] Recovered %d missed alarm(s): %s", len(report.Recovered), strings.Join(summary, ", "))

	return report, nil
}

func pickMissed(missed []MissedAlarm, pick PickPolicy) MissedAlarm {
	chosen := missed[0]
	if pick == PickLatest {
		for _, m := range missed[1:] {
			if m.Instant.After(chosen.Instant) {
				chosen = m
			}
		}
	}
	return chosen
}
