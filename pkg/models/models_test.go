package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{in: "05:30", hour: 5, minute: 30},
		{in: "18:45", hour: 18, minute: 45},
		{in: " 0:00 ", hour: 0, minute: 0},
		{in: "23:59", hour: 23, minute: 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "aa:bb", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		hour, minute, err := ParseClock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("ParseClock(%q) error = %v, want ErrInvalidClock", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if hour != tt.hour || minute != tt.minute {
			t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, hour, minute, tt.hour, tt.minute)
		}
	}
}

func TestClockOnUsesDayLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	day := time.Date(2026, 3, 1, 22, 10, 0, 0, loc)

	got, err := ClockOn(day, "04:35")
	if err != nil {
		t.Fatalf("ClockOn: %v", err)
	}
	want := time.Date(2026, 3, 1, 4, 35, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("ClockOn = %v, want %v", got, want)
	}
}

func TestMergeSettingsClamps(t *testing.T) {
	enabled := true
	tooSmall := 0
	tooLarge := 90

	got := MergeSettings(DefaultSettings(), SettingsPatch{
		Enabled:      &enabled,
		SaharMinutes: &tooSmall,
		IftarMinutes: &tooLarge,
	})

	if !got.Enabled {
		t.Error("expected enabled to be applied")
	}
	if got.SaharMinutes != MinPreMinutes {
		t.Errorf("SaharMinutes = %d, want %d", got.SaharMinutes, MinPreMinutes)
	}
	if got.IftarMinutes != MaxPreMinutes {
		t.Errorf("IftarMinutes = %d, want %d", got.IftarMinutes, MaxPreMinutes)
	}
}

func TestMergeSettingsKeepsBaseForNilFields(t *testing.T) {
	base := AlarmSettings{Enabled: true, SaharMinutes: 20, IftarMinutes: 5}
	got := MergeSettings(base, SettingsPatch{})
	if got != base {
		t.Errorf("MergeSettings with empty patch = %+v, want %+v", got, base)
	}
}

func TestRecordMarkTriggeredIsMonotonic(t *testing.T) {
	instant := time.Date(2026, 3, 1, 5, 30, 0, 0, time.UTC)
	record := NewAlarmRecord("2026-03-01", "", []PlannedAlarm{
		{Kind: AlarmKindSahar, Instant: instant},
	})

	if len(record.Pending()) != 1 {
		t.Fatalf("expected one pending entry, got %d", len(record.Pending()))
	}
	if !record.MarkTriggered(AlarmKindSahar, instant) {
		t.Fatal("expected first MarkTriggered to change the record")
	}
	if record.MarkTriggered(AlarmKindSahar, instant) {
		t.Error("second MarkTriggered must be a no-op")
	}
	if !record.Alarms[0].Triggered {
		t.Error("entry must stay triggered")
	}
	if record.MarkTriggered(AlarmKindSahar, instant.Add(time.Minute)) {
		t.Error("entry with a different instant must not match")
	}
}

func TestAlarmStateTransitions(t *testing.T) {
	cases := []struct {
		from AlarmState
		want AlarmState
	}{
		{AlarmStateMissedRecoverable, AlarmStateFired},
		{AlarmStateMissedStale, AlarmStateSuppressed},
		{AlarmStateScheduled, AlarmStateScheduled},
		{AlarmStateFired, AlarmStateFired},
		{AlarmStateSuppressed, AlarmStateSuppressed},
	}
	for _, c := range cases {
		if got := c.from.Settle(); got != c.want {
			t.Errorf("%s.Settle() = %s, want %s", c.from, got, c.want)
		}
	}

	alarm := PlannedAlarm{Kind: AlarmKindIftar}
	if alarm.State() != AlarmStateScheduled {
		t.Errorf("untriggered alarm state = %s", alarm.State())
	}
	alarm.Triggered = true
	if alarm.State() != AlarmStateFired {
		t.Errorf("triggered alarm state = %s", alarm.State())
	}
}

func TestNeedsConfiguration(t *testing.T) {
	cases := []struct {
		cfg  AppConfig
		want bool
	}{
		{AppConfig{Source: SourceICal}, true},
		{AppConfig{Source: SourceICal, ICal: "https://example.com/ramadan.ics"}, false},
		{AppConfig{Source: SourceTimetable, Timetable: "/tmp/t.db"}, false},
		{AppConfig{Source: SourceNone}, true},
	}
	for _, c := range cases {
		if got := c.cfg.NeedsConfiguration(); got != c.want {
			t.Errorf("NeedsConfiguration(%+v) = %v, want %v", c.cfg, got, c.want)
		}
	}
}
