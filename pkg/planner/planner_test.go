package planner

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 1, hour, minute, 0, 0, time.Local)
}

func sampleTimes() *models.DayEventTimes {
	return &models.DayEventTimes{Date: "2026-03-01", Sahar: "05:30", Iftar: "18:45"}
}

func sampleSettings() models.AlarmSettings {
	return models.AlarmSettings{Enabled: true, SaharMinutes: 15, IftarMinutes: 15}
}

func TestPlanBeforeDawnReturnsAllFour(t *testing.T) {
	alarms := Plan(at(4, 0), sampleTimes(), sampleSettings())

	want := []struct {
		kind    models.AlarmKind
		instant time.Time
	}{
		{models.AlarmKindSaharPre, at(5, 15)},
		{models.AlarmKindSahar, at(5, 30)},
		{models.AlarmKindIftarPre, at(18, 30)},
		{models.AlarmKindIftar, at(18, 45)},
	}

	if len(alarms) != len(want) {
		t.Fatalf("expected %d alarms, got %d", len(want), len(alarms))
	}
	for i, w := range want {
		if alarms[i].Kind != w.kind || !alarms[i].Instant.Equal(w.instant) {
			t.Errorf("alarm %d = %s@%s, want %s@%s", i, alarms[i].Kind,
				alarms[i].Instant.Format("15:04"), w.kind, w.instant.Format("15:04"))
		}
		if alarms[i].Triggered {
			t.Errorf("alarm %d must start untriggered", i)
		}
	}
}

func TestPlanAfterImsakReturnsOnlyIftar(t *testing.T) {
	alarms := Plan(at(6, 0), sampleTimes(), sampleSettings())

	if len(alarms) != 2 {
		t.Fatalf("expected 2 alarms, got %d", len(alarms))
	}
	if alarms[0].Kind != models.AlarmKindIftarPre || !alarms[0].Instant.Equal(at(18, 30)) {
		t.Errorf("first alarm = %s@%s, want iftar-pre@18:30", alarms[0].Kind, alarms[0].Instant.Format("15:04"))
	}
	if alarms[1].Kind != models.AlarmKindIftar || !alarms[1].Instant.Equal(at(18, 45)) {
		t.Errorf("second alarm = %s@%s, want iftar@18:45", alarms[1].Kind, alarms[1].Instant.Format("15:04"))
	}
}

func TestPlanDropsAlarmAtExactlyNow(t *testing.T) {
	alarms := Plan(at(5, 15), sampleTimes(), sampleSettings())
	for _, alarm := range alarms {
		if !alarm.Instant.After(at(5, 15)) {
			t.Errorf("alarm %s at %s is not in the future", alarm.Kind, alarm.Instant)
		}
	}
	if len(alarms) != 3 {
		t.Errorf("expected 3 alarms, got %d", len(alarms))
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	now := at(3, 12)
	first := Plan(now, sampleTimes(), sampleSettings())
	for i := 0; i < 5; i++ {
		if again := Plan(now, sampleTimes(), sampleSettings()); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestPlanPreAlwaysBeforeExact(t *testing.T) {
	for minutes := models.MinPreMinutes; minutes <= models.MaxPreMinutes; minutes++ {
		settings := models.AlarmSettings{Enabled: true, SaharMinutes: minutes, IftarMinutes: minutes}
		alarms := Plan(at(0, 0), sampleTimes(), settings)
		byKind := map[models.AlarmKind]time.Time{}
		for _, alarm := range alarms {
			byKind[alarm.Kind] = alarm.Instant
		}
		if !byKind[models.AlarmKindSaharPre].Before(byKind[models.AlarmKindSahar]) {
			t.Errorf("minutes=%d: sahar-pre not before sahar", minutes)
		}
		if !byKind[models.AlarmKindIftarPre].Before(byKind[models.AlarmKindIftar]) {
			t.Errorf("minutes=%d: iftar-pre not before iftar", minutes)
		}
	}
}

func TestPlanWithoutTimesIsEmpty(t *testing.T) {
	if alarms := Plan(at(4, 0), nil, sampleSettings()); len(alarms) != 0 {
		t.Errorf("expected no alarms, got %d", len(alarms))
	}
}

func TestPlanMessages(t *testing.T) {
	settings := models.AlarmSettings{Enabled: true, SaharMinutes: 10, IftarMinutes: 20}
	alarms := Plan(at(0, 0), sampleTimes(), settings)

	messages := map[models.AlarmKind]string{}
	for _, alarm := range alarms {
		messages[alarm.Kind] = alarm.Message
	}

	if !strings.Contains(messages[models.AlarmKindSaharPre], "in 10 minutes") {
		t.Errorf("sahar-pre message = %q", messages[models.AlarmKindSaharPre])
	}
	if !strings.Contains(messages[models.AlarmKindIftarPre], "in 20 minutes") {
		t.Errorf("iftar-pre message = %q", messages[models.AlarmKindIftarPre])
	}
	if !strings.Contains(messages[models.AlarmKindSahar], "end your meal now") {
		t.Errorf("sahar message = %q", messages[models.AlarmKindSahar])
	}
	if !strings.Contains(messages[models.AlarmKindIftar], "break your fast") {
		t.Errorf("iftar message = %q", messages[models.AlarmKindIftar])
	}
}

func TestPlanSkipsMalformedEvent(t *testing.T) {
	times := &models.DayEventTimes{Sahar: "25:00", Iftar: "18:45"}
	alarms := Plan(at(4, 0), times, sampleSettings())
	if len(alarms) != 2 {
		t.Fatalf("expected only the iftar alarms, got %d", len(alarms))
	}
	for _, alarm := range alarms {
		if alarm.Kind.Event() != models.EventIftar {
			t.Errorf("unexpected %s alarm", alarm.Kind)
		}
	}
}
