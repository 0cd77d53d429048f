package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/store"
)

type countingPrompter struct {
	answer bool
	calls  int
}

func (p *countingPrompter) Prompt(context.Context) (bool, error) {
	p.calls++
	return p.answer, nil
}

type fakeDirect struct {
	shown []models.Notification
	err   error
}

func (f *fakeDirect) Show(n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.shown = append(f.shown, n)
	return nil
}

type fakeBackground struct {
	connected bool
	err       error
	posted    []models.Notification
}

func (f *fakeBackground) Connected() bool { return f.connected }

func (f *fakeBackground) Post(n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, n)
	return nil
}

type fakeStatus struct {
	toasts []models.Notification
	warns  []string
}

func (f *fakeStatus) Toast(n models.Notification) { f.toasts = append(f.toasts, n) }
func (f *fakeStatus) Warn(message string)         { f.warns = append(f.warns, message) }

var iftar = models.Notification{Title: "Iftar", Message: "Iftar time has arrived, break your fast.", Kind: models.AlarmKindIftar}

func TestRequestGrantsAndRemembers(t *testing.T) {
	kv := store.NewMemoryKV()
	prompter := &countingPrompter{answer: true}
	perms := NewPermissions(kv, prompter)

	if got := perms.Current(); got != PermissionDefault {
		t.Fatalf("Current = %s, want default", got)
	}
	got, err := perms.Request(context.Background())
	if err != nil || got != PermissionGranted {
		t.Fatalf("Request = %s, %v", got, err)
	}
	perms.Request(context.Background())
	if prompter.calls != 1 {
		t.Errorf("prompted %d times, want once", prompter.calls)
	}

	raw, _ := kv.Get(permissionKey)
	if string(raw) != "granted" {
		t.Errorf("stored permission = %q", raw)
	}
}

func TestDeniedIsNeverReprompted(t *testing.T) {
	prompter := &countingPrompter{answer: false}
	perms := NewPermissions(store.NewMemoryKV(), prompter)

	for i := 0; i < 3; i++ {
		got, err := perms.Request(context.Background())
		if !errors.Is(err, ErrPermissionDenied) || got != PermissionDenied {
			t.Fatalf("Request #%d = %s, %v", i, got, err)
		}
	}
	if prompter.calls != 1 {
		t.Errorf("prompted %d times, a denial must not be re-prompted", prompter.calls)
	}
}

func TestGatedRequiresPermission(t *testing.T) {
	kv := store.NewMemoryKV()
	direct := &fakeDirect{}
	gated := NewGated(NewPermissions(kv, StaticPrompter(true)), direct)

	if err := gated.Show(iftar); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Show without permission error = %v", err)
	}

	kv.Set(permissionKey, []byte(PermissionGranted))
	if err := gated.Show(iftar); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(direct.shown) != 1 {
		t.Errorf("shown = %d, want 1", len(direct.shown))
	}
}

func TestDispatcher(t *testing.T) {
	cases := []struct {
		name       string
		connected  bool
		postErr    error
		permission Permission
		wantPosted int
		wantShown  int
	}{
		{name: "background connected", connected: true, permission: PermissionGranted, wantPosted: 1},
		{name: "background down, granted", permission: PermissionGranted, wantShown: 1},
		{name: "background down, denied", permission: PermissionDenied},
		{name: "background never asked", permission: PermissionDefault},
		{name: "hand-off fails", connected: true, postErr: errors.New("bus full"), permission: PermissionGranted, wantShown: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			if c.permission != PermissionDefault {
				kv.Set(permissionKey, []byte(c.permission))
			}
			direct := &fakeDirect{}
			background := &fakeBackground{connected: c.connected, err: c.postErr}
			status := &fakeStatus{}
			d := NewDispatcher(background, NewGated(NewPermissions(kv, StaticPrompter(false)), direct), status)

			d.Notify(context.Background(), iftar)

			if len(background.posted) != c.wantPosted || len(direct.shown) != c.wantShown {
				t.Errorf("posted %d shown %d, want %d and %d", len(background.posted), len(direct.shown), c.wantPosted, c.wantShown)
			}
			if len(status.toasts) != 1 {
				t.Errorf("toasts = %d, the in-app status is always raised", len(status.toasts))
			}
		})
	}
}

func TestDispatcherWithoutBackground(t *testing.T) {
	kv := store.NewMemoryKV()
	kv.Set(permissionKey, []byte(PermissionGranted))
	direct := &fakeDirect{err: errors.New("no display")}
	status := &fakeStatus{}

	NewDispatcher(nil, NewGated(NewPermissions(kv, nil), direct), status).Notify(context.Background(), iftar)
	if len(status.toasts) != 1 {
		t.Error("a direct channel failure must not stop the toast")
	}
}

func TestExecChannelCommands(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	linux := &ExecChannel{goos: "linux", run: run}
	note := iftar
	note.RequireInteraction = true
	if err := linux.Show(note); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if gotName != "notify-send" || strings.Join(gotArgs, "|") != "-a|fast-alarm|-u|critical|Iftar|Iftar time has arrived, break your fast." {
		t.Errorf("linux command = %s %q", gotName, gotArgs)
	}

	darwin := &ExecChannel{goos: "darwin", run: run}
	darwin.Show(models.Notification{Title: `Say "hi"`, Message: "Imsak in 15 minutes."})
	if gotName != "osascript" || gotArgs[1] != `display notification "Imsak in 15 minutes." with title "Say \"hi\""` {
		t.Errorf("darwin command = %s %q", gotName, gotArgs)
	}

	if err := (&ExecChannel{goos: "plan9", run: run}).Show(iftar); err == nil {
		t.Error("expected an unsupported platform error")
	}
}
