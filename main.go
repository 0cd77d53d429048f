package main

import (
	"context"
	"log"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/commands"
	"github.com/borgmon/fast-alarm/pkg/engine"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/platform"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
	"github.com/borgmon/fast-alarm/pkg/store"
)

const appID = "com.borgmon.fast-alarm"

type FastAlarm struct {
	app            fyne.App
	config         *models.AppConfig
	prefs          trayPrefs
	engine         *engine.Engine
	status         *trayStatus
	settingsWindow *SettingsWindow
	closeSource    func() error

	mu     sync.Mutex
	cancel context.CancelFunc
}

func main() {
	if err := commands.New(runTray).Execute(); err != nil {
		os.Exit(1)
	}
}

func runTray(cfg *models.AppConfig) error {
	fa := &FastAlarm{
		app:    app.NewWithID(appID),
		config: cfg,
	}

	if err := fa.initialize(); err != nil {
		return err
	}

	fa.run()
	return nil
}

func (fa *FastAlarm) initialize() error {
	fa.prefs = loadTrayPrefs(fa.app, fa.config)

	// Sync autostart state with the stored preference on startup
	if err := setupAutostart(fa.prefs.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	source, closeSource, err := calendar.FromConfig(fa.config)
	if err != nil {
		return err
	}
	fa.closeSource = closeSource

	fa.status = &trayStatus{fa: fa}
	fa.engine, err = engine.New(engine.Options{
		KV:             store.NewPreferencesKV(fa.app),
		Source:         source,
		Direct:         desktopChannel{app: fa.app},
		Prompter:       dialogPrompter{fa: fa},
		Status:         fa.status,
		SocketPath:     fa.config.Socket,
		RecoveryPick:   scheduler.ParsePickPolicy(fa.config.RecoveryPick),
		ReplanSchedule: fa.config.ReplanCron,
	})
	if err != nil {
		closeSource()
		return err
	}

	fa.setupSystemTray()
	return nil
}

func (fa *FastAlarm) run() {
	fa.app.Lifecycle().SetOnStarted(func() {
		platform.SetAccessory()
		go fa.start()
	})
	fa.app.Run()

	fa.mu.Lock()
	cancel := fa.cancel
	fa.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	fa.engine.Stop()
	if err := fa.closeSource(); err != nil {
		log.Printf("Failed to close event time source: %v", err)
	}
}

// start runs recovery and the first plan once the UI is up, so a missed
// alarm summary has a tray to land in
func (fa *FastAlarm) start() {
	ctx, cancel := context.WithCancel(context.Background())
	fa.mu.Lock()
	fa.cancel = cancel
	fa.mu.Unlock()

	if err := fa.engine.Start(ctx); err != nil {
		// Usually another instance already owns the socket
		log.Printf("[CONTROL] %v", err)
	}
	fyne.Do(func() {
		fa.updateSystemTrayMenu()
		if fa.config.NeedsConfiguration() {
			fa.showSettingsWindow()
		}
	})
}

func (fa *FastAlarm) currentPrefs() trayPrefs {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	return fa.prefs
}

func (fa *FastAlarm) setPrefs(p trayPrefs) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.prefs = p
}

func (fa *FastAlarm) checkNow() {
	delivered := fa.engine.CheckNow(context.Background())
	log.Printf("[FIRE] Check now delivered %d alarm(s)", delivered)
	fyne.Do(fa.updateSystemTrayMenu)
}

func (fa *FastAlarm) quit() {
	fa.app.Quit()
}
