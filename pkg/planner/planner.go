// Package planner turns a day's event times and the user's settings into the
// ordered list of alarms that should still fire today. It does no I/O.
package planner

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// Plan returns today's future alarms in chronological order.
// Alarms at or before now are dropped. Nil times means no data for today.
func Plan(now time.Time, times *models.DayEventTimes, settings models.AlarmSettings) []models.PlannedAlarm {
	alarms := []models.PlannedAlarm{}
	if times == nil {
		return alarms
	}

	settings = settings.Normalize()

	for _, event := range []models.Event{models.EventSahar, models.EventIftar} {
		exact, err := models.ClockOn(now, times.Time(event))
		if err != nil {
			log.Printf("[PLAN] Skipping %s: %v", event, err)
			continue
		}

		minutes := settings.PreMinutes(event)
		pre := exact.Add(-time.Duration(minutes) * time.Minute)

		preKind, exactKind := kindsFor(event)
		for _, candidate := range []struct {
			kind    models.AlarmKind
			instant time.Time
		}{
			{preKind, pre},
			{exactKind, exact},
		} {
			if !candidate.instant.After(now) {
				continue
			}
			title, message := Describe(candidate.kind, minutes)
			alarms = append(alarms, models.PlannedAlarm{
				Kind:    candidate.kind,
				Instant: candidate.instant,
				Title:   title,
				Message: message,
			})
		}
	}

	sort.SliceStable(alarms, func(i, j int) bool {
		return alarms[i].Instant.Before(alarms[j].Instant)
	})
	return alarms
}

// Describe returns the notification title and message for an alarm kind.
// minutes is the pre-alarm offset and is ignored for exact alarms.
func Describe(kind models.AlarmKind, minutes int) (title, message string) {
	switch kind {
	case models.AlarmKindSaharPre:
		return "Sahur Reminder", fmt.Sprintf("Imsak in %d minutes. Finish your sahur.", minutes)
	case models.AlarmKindSahar:
		return "Imsak", "Imsak time has arrived, end your meal now."
	case models.AlarmKindIftarPre:
		return "Iftar Reminder", fmt.Sprintf("Iftar in %d minutes.", minutes)
	case models.AlarmKindIftar:
		return "Iftar", "Iftar time has arrived, break your fast."
	}
	return "Alarm", string(kind)
}

// Label is the short human name of an alarm kind
func Label(kind models.AlarmKind) string {
	switch kind {
	case models.AlarmKindSaharPre:
		return "Sahur reminder"
	case models.AlarmKindSahar:
		return "Imsak"
	case models.AlarmKindIftarPre:
		return "Iftar reminder"
	case models.AlarmKindIftar:
		return "Iftar"
	}
	return string(kind)
}

func kindsFor(event models.Event) (pre, exact models.AlarmKind) {
	if event == models.EventIftar {
		return models.AlarmKindIftarPre, models.AlarmKindIftar
	}
	return models.AlarmKindSaharPre, models.AlarmKindSahar
}
