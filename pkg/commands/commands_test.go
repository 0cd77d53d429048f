package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/borgmon/fast-alarm/pkg/control"
	"github.com/borgmon/fast-alarm/pkg/engine"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type testEnv struct {
	config  string
	dataDir string
}

func newTestEnv(t *testing.T, notifications string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		config:  filepath.Join(dir, "fast-alarm.yaml"),
		dataDir: filepath.Join(dir, "data"),
	}
	content := fmt.Sprintf("source: timetable\ndata_dir: %s\ntimetable: %s\nsocket: %s\nnotifications: %s\n",
		env.dataDir, filepath.Join(dir, "timetable.db"), filepath.Join(dir, "control.sock"), notifications)
	if err := os.WriteFile(env.config, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New(nil)
	cmd.SetArgs(append(args, "--config", e.config))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return out.String(), err
}

func (e testEnv) settings(t *testing.T) models.AlarmSettings {
	t.Helper()
	s, err := store.NewSettingsStore(store.NewDiskvKV(e.dataDir)).Load()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return s
}

func TestTimetableSetAndShow(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	if out, err := env.run(t, "timetable", "set", "2026-03-01", "04:32", "18:05", "--calendar", "jakarta-1447"); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}
	if out, err := env.run(t, "timetable", "set", "2026-03-02", "04:31", "18:05"); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}

	out, err := env.run(t, "timetable", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Timetable", "2026-03-01", "04:32", "18:05", "jakarta-1447", "2026-03-02", "04:31"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "2026-03-01") > strings.Index(out, "2026-03-02") {
		t.Errorf("dates must be listed in order:\n%s", out)
	}
}

func TestTimetableSetRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	tests := map[string][]string{
		"bad clock":   {"timetable", "set", "2026-03-01", "25:00", "18:05"},
		"bad date":    {"timetable", "set", "01/03/2026", "04:32", "18:05"},
		"missing arg": {"timetable", "set", "2026-03-01", "04:32"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := env.run(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSettingsEnableClampsAndSaves(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	out, err := env.run(t, "settings", "--enable", "--sahar-minutes", "90", "--iftar-minutes", "10")
	if err != nil {
		t.Fatalf("settings: %v\n%s", err, out)
	}

	want := models.AlarmSettings{Enabled: true, SaharMinutes: 60, IftarMinutes: 10}
	if got := env.settings(t); got != want {
		t.Errorf("stored settings = %+v, want %+v", got, want)
	}
	for _, s := range []string{"enabled", "sahur 60 min", "iftar 10 min", "No running instance"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}

	kv := store.NewDiskvKV(env.dataDir)
	if got := notify.NewPermissions(kv, nil).Current(); got != notify.PermissionGranted {
		t.Errorf("permission = %q, want granted", got)
	}
}

func TestSettingsDeniedStillSaves(t *testing.T) {
	env := newTestEnv(t, models.NotificationsDeny)

	out, err := env.run(t, "settings", "--enable")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !strings.Contains(out, engine.DeniedWarning) {
		t.Errorf("expected the denied warning:\n%s", out)
	}
	if !env.settings(t).Enabled {
		t.Error("settings must be saved even when notifications are denied")
	}
}

func TestSettingsDisableKeepsOffsets(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	if _, err := env.run(t, "settings", "--enable", "--iftar-minutes", "5"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "settings", "--disable"); err != nil {
		t.Fatal(err)
	}

	got := env.settings(t)
	if got.Enabled || got.IftarMinutes != 5 || got.SaharMinutes != models.DefaultPreMinutes {
		t.Errorf("settings = %+v", got)
	}
}

func TestSettingsRejectsBothToggles(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)
	if _, err := env.run(t, "settings", "--enable", "--disable"); err == nil {
		t.Error("expected an error")
	}
}

func TestPlanDryRun(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	if _, err := env.run(t, "timetable", "set", "2026-03-01", "04:32", "18:05"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "settings", "--enable", "--sahar-minutes", "30", "--iftar-minutes", "10"); err != nil {
		t.Fatal(err)
	}

	out, err := env.run(t, "plan", "--at", "2026-03-01 04:10")
	if err != nil {
		t.Fatalf("plan: %v\n%s", err, out)
	}
	for _, want := range []string{"Alarms for 2026-03-01", "04:32", "Imsak", "17:55", "Iftar reminder", "18:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}
	// 04:02 already passed at 04:10
	if strings.Contains(out, "04:02") {
		t.Errorf("past sahur reminder must not be planned:\n%s", out)
	}

	if _, err := store.NewDiskvKV(env.dataDir).Get("alarmData"); !errors.Is(err, store.ErrNotFound) {
		t.Error("a dry run must not write an alarm record")
	}
}

func TestPlanWithoutTimes(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)

	out, err := env.run(t, "plan", "--at", "2026-03-01 04:10")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("expected an empty plan:\n%s", out)
	}
}

func TestPlanRejectsBadAt(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)
	if _, err := env.run(t, "plan", "--at", "tomorrow"); err == nil {
		t.Error("expected an error")
	}
}

func TestStatusWithoutInstance(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)
	if _, err := env.run(t, "status"); err == nil {
		t.Error("expected an error when nothing is listening")
	}
}

func TestPrintStatus(t *testing.T) {
	res := &control.StatusResult{
		Enabled:      true,
		SaharMinutes: 15,
		IftarMinutes: 15,
		Date:         "2026-03-01",
		Alarms: []control.AlarmStatus{
			{Kind: string(models.AlarmKindSahar), Instant: time.Date(2026, 3, 1, 4, 32, 0, 0, time.Local), Triggered: true},
			{Kind: string(models.AlarmKindIftar), Instant: time.Date(2026, 3, 1, 18, 5, 0, 0, time.Local)},
		},
	}

	var table bytes.Buffer
	if err := printStatus(&table, res, ""); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"enabled", "Alarms for 2026-03-01", "04:32", "done", "18:05", "Iftar"} {
		if !strings.Contains(table.String(), want) {
			t.Errorf("table missing %q:\n%s", want, table.String())
		}
	}

	var js bytes.Buffer
	if err := printStatus(&js, res, "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"saharMinutes": 15`) {
		t.Errorf("json output = %s", js.String())
	}

	if err := printStatus(&js, res, "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestPrompterFor(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		policy string
		input  string
		want   bool
	}{
		{models.NotificationsAllow, "", true},
		{models.NotificationsDeny, "y\n", false},
		{models.NotificationsPrompt, "y\n", true},
		{models.NotificationsPrompt, "YES\n", true},
		{models.NotificationsPrompt, "n\n", false},
		{models.NotificationsPrompt, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.policy+"/"+strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := prompterFor(tt.policy, strings.NewReader(tt.input), &out).Prompt(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Prompt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, models.NotificationsAllow)
	out, err := env.run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dev") {
		t.Errorf("version output = %q", out)
	}
}
