package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/fast-alarm/pkg/models"
)

func kvBackends(t *testing.T) map[string]KV {
	t.Helper()
	return map[string]KV{
		"memory":      NewMemoryKV(),
		"diskv":       NewDiskvKV(t.TempDir()),
		"preferences": NewPreferencesKV(test.NewApp()),
	}
}

func TestKVRoundTripAndRemove(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := kv.Set("alarmData", []byte(`{"date":"2026-03-01"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := kv.Get("alarmData")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"date":"2026-03-01"}` {
				t.Errorf("Get = %q", got)
			}

			if err := kv.Remove("alarmData"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, err := kv.Get("alarmData"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
			}
			if err := kv.Remove("alarmData"); err != nil {
				t.Errorf("removing a missing key must not fail: %v", err)
			}
		})
	}
}

func TestSettingsStoreDefaultsWhenEmpty(t *testing.T) {
	ss := NewSettingsStore(NewMemoryKV())
	got, err := ss.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("Load = %+v, want defaults", got)
	}
}

func TestSettingsStoreSaveClampsAndUsesExternalShape(t *testing.T) {
	kv := NewMemoryKV()
	ss := NewSettingsStore(kv)

	saved, err := ss.Save(models.AlarmSettings{Enabled: true, SaharMinutes: 0, IftarMinutes: 75})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SaharMinutes != 1 || saved.IftarMinutes != 60 {
		t.Errorf("Save returned %+v, want minutes clamped to 1 and 60", saved)
	}

	raw, _ := kv.Get(settingsKey)
	if string(raw) != `{"enabled":true,"saharMinutes":1,"iftarMinutes":60}` {
		t.Errorf("stored settings = %s", raw)
	}
}

func TestSettingsStoreMergesPartialDocument(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(settingsKey, []byte(`{"enabled":true,"iftarMinutes":5}`))

	got, err := NewSettingsStore(kv).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := models.AlarmSettings{Enabled: true, SaharMinutes: models.DefaultPreMinutes, IftarMinutes: 5}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestSettingsStoreCorruptReturnsDefaultsAndError(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(settingsKey, []byte(`{not json`))

	got, err := NewSettingsStore(kv).Load()
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if got != models.DefaultSettings() {
		t.Errorf("Load = %+v, want defaults alongside the error", got)
	}
}

func TestSettingsStoreUpdate(t *testing.T) {
	ss := NewSettingsStore(NewMemoryKV())
	enabled := true
	minutes := 30

	got, err := ss.Update(models.SettingsPatch{Enabled: &enabled, IftarMinutes: &minutes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.Enabled || got.IftarMinutes != 30 || got.SaharMinutes != models.DefaultPreMinutes {
		t.Errorf("Update = %+v", got)
	}
}

func TestRecordStoreLifecycle(t *testing.T) {
	rs := NewRecordStore(NewDiskvKV(t.TempDir()))

	record, err := rs.Load()
	if err != nil || record != nil {
		t.Fatalf("Load on empty store = %v, %v; want nil, nil", record, err)
	}

	instant := time.Date(2026, 3, 1, 18, 45, 0, 0, time.UTC)
	want := models.NewAlarmRecord("2026-03-01", "ramadan-1447", []models.PlannedAlarm{
		{Kind: models.AlarmKindIftar, Instant: instant},
	})
	if err := rs.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := rs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Date != want.Date || got.CalendarID != want.CalendarID || len(got.Alarms) != 1 {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
	if got.Alarms[0].Type != models.AlarmKindIftar || !got.Alarms[0].Time.Equal(instant) {
		t.Errorf("entry = %+v", got.Alarms[0])
	}

	if err := rs.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if record, _ := rs.Load(); record != nil {
		t.Error("record must be gone after Delete")
	}
}

func TestRecordStoreReadsExternalShape(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(recordKey, []byte(`{"alarms":[{"type":"sahar","time":"2026-03-01T05:30:00Z","triggered":true}],"date":"2026-03-01"}`))

	record, err := NewRecordStore(kv).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !record.IsFor("2026-03-01") || len(record.Alarms) != 1 || !record.Alarms[0].Triggered {
		t.Errorf("Load = %+v", record)
	}
}

func TestRecordStoreCorrupt(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(recordKey, []byte(`[`))
	if _, err := NewRecordStore(kv).Load(); err == nil {
		t.Error("expected a decode error")
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fast-alarm.yaml")
	content := []byte("source: ical\nical: https://example.com/ramadan.ics\ndata_dir: " + dir + "\nrecovery_pick: latest\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAST_ALARM_NOTIFICATIONS", "allow")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source != models.SourceICal || cfg.ICal != "https://example.com/ramadan.ics" {
		t.Errorf("source = %q %q", cfg.Source, cfg.ICal)
	}
	if cfg.DataDir != filepath.Clean(dir) {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.Notifications != models.NotificationsAllow {
		t.Errorf("Notifications = %q, want env override", cfg.Notifications)
	}
	if cfg.RecoveryPick != "latest" {
		t.Errorf("RecoveryPick = %q", cfg.RecoveryPick)
	}
	if len(cfg.IftarNames) == 0 {
		t.Error("expected default iftar names")
	}
}
