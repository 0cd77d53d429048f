package main

import (
	"fyne.io/fyne/v2"
	"github.com/borgmon/fast-alarm/pkg/models"
)

// trayPrefs are tray-only options kept in Fyne preferences.
// The config file value is used until the user saves the settings window.
type trayPrefs struct {
	AutoStart bool
	PlayChime bool
}

func loadTrayPrefs(app fyne.App, cfg *models.AppConfig) trayPrefs {
	prefs := app.Preferences()

	return trayPrefs{
		AutoStart: prefs.BoolWithFallback("auto_start", cfg.AutoStart),
		PlayChime: prefs.BoolWithFallback("play_chime", true),
	}
}

func saveTrayPrefs(app fyne.App, p trayPrefs) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", p.AutoStart)
	prefs.SetBool("play_chime", p.PlayChime)
}
