package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/platform"
)

var minuteChoices = []int{1, 5, 10, 15, 20, 30, 45, 60}

type SettingsWindow struct {
	window fyne.Window
	fa     *FastAlarm
	saved  models.AlarmSettings

	enabledCheck   *widget.Check
	saharSelect    *widget.Select
	iftarSelect    *widget.Select
	autoStartCheck *widget.Check
	chimeCheck     *widget.Check

	saveStatusLabel *widget.Label
	saveButton      *widget.Button
}

func (fa *FastAlarm) showSettingsWindow() {
	// If the window already exists, just bring it to front
	if fa.settingsWindow != nil {
		platform.BringToFront()
		fa.settingsWindow.window.RequestFocus()
		fa.settingsWindow.window.Show()
		return
	}

	fa.settingsWindow = NewSettingsWindow(fa)
	fa.settingsWindow.window.SetOnClosed(func() {
		fa.settingsWindow = nil
	})
	platform.BringToFront()
	fa.settingsWindow.window.Show()
}

func NewSettingsWindow(fa *FastAlarm) *SettingsWindow {
	saved, err := fa.engine.Settings.Load()
	if err != nil {
		log.Printf("Failed to load settings, showing defaults: %v", err)
	}

	sw := &SettingsWindow{
		fa:     fa,
		saved:  saved,
		window: fa.app.NewWindow("Fast Alarm - Settings"),
	}
	sw.buildUI()
	return sw
}

func (sw *SettingsWindow) buildUI() {
	sw.enabledCheck = widget.NewCheck("Enable sahur and iftar alarms", func(bool) { sw.markChanged() })
	sw.enabledCheck.SetChecked(sw.saved.Enabled)

	sw.saharSelect = widget.NewSelect(minuteOptions(sw.saved.SaharMinutes), func(string) { sw.markChanged() })
	sw.saharSelect.SetSelected(formatMinutes(sw.saved.SaharMinutes))
	sw.iftarSelect = widget.NewSelect(minuteOptions(sw.saved.IftarMinutes), func(string) { sw.markChanged() })
	sw.iftarSelect.SetSelected(formatMinutes(sw.saved.IftarMinutes))

	sw.autoStartCheck = widget.NewCheck("Launch Fast Alarm when you log in", func(bool) { sw.markChanged() })
	sw.autoStartCheck.SetChecked(sw.fa.currentPrefs().AutoStart)
	sw.chimeCheck = widget.NewCheck("Play a chime when an alarm fires", func(bool) { sw.markChanged() })
	sw.chimeCheck.SetChecked(sw.fa.currentPrefs().PlayChime)

	saharHelp := widget.NewLabel("Reminder before imsak, the end of sahur")
	saharHelp.Importance = widget.MediumImportance
	iftarHelp := widget.NewLabel("Reminder before iftar")
	iftarHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Alarms:"), sw.enabledCheck,
		container.NewVBox(widget.NewLabel("Sahur reminder:"), saharHelp), sw.saharSelect,
		container.NewVBox(widget.NewLabel("Iftar reminder:"), iftarHelp), sw.iftarSelect,
		widget.NewLabel("Auto Start:"), sw.autoStartCheck,
		widget.NewLabel("Sound:"), sw.chimeCheck,
	)

	sourceLabel := widget.NewLabel(sourceDescription(sw.fa.config))
	sourceLabel.Wrapping = fyne.TextWrapWord
	sourceLabel.Importance = widget.MediumImportance

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveButton = widget.NewButton("Save", sw.save)
	sw.saveButton.Importance = widget.HighImportance
	sw.saveButton.Disable() // Initially disabled until changes are made

	closeButton := widget.NewButton("Close", func() {
		sw.handleClose()
	})

	buttonRow := container.NewBorder(nil, nil,
		container.NewHBox(sw.saveButton, sw.saveStatusLabel),
		closeButton,
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		container.NewPadded(container.NewVBox(
			widget.NewLabel("Alarm Settings"),
			widget.NewSeparator(),
			form,
			widget.NewSeparator(),
			sourceLabel,
		)),
	)

	sw.window.SetContent(content)
	sw.window.Resize(fyne.NewSize(560, 420))
	sw.window.CenterOnScreen()
	sw.window.SetCloseIntercept(func() {
		sw.handleClose()
	})
}

// save runs the explicit save flow off the UI goroutine, since enabling
// alarms may block on the permission dialog
func (sw *SettingsWindow) save() {
	sw.saveButton.Disable()
	sw.setStatus("Saving...", widget.MediumImportance)

	settings := sw.settingsFromUI()
	prefs := trayPrefs{AutoStart: sw.autoStartCheck.Checked, PlayChime: sw.chimeCheck.Checked}

	go func() {
		if prefs.AutoStart != sw.fa.currentPrefs().AutoStart {
			if err := setupAutostart(prefs.AutoStart); err != nil {
				log.Printf("Error setting autostart: %v", err)
				fyne.Do(func() {
					sw.setStatus("Error: Failed to set autostart", widget.DangerImportance)
					sw.saveButton.Enable()
				})
				return
			}
		}
		saveTrayPrefs(sw.fa.app, prefs)
		sw.fa.setPrefs(prefs)

		saved, err := sw.fa.engine.SaveSettings(context.Background(), settings)
		fyne.Do(func() {
			sw.saved = saved
			sw.enabledCheck.SetChecked(saved.Enabled)
			sw.saharSelect.SetSelected(formatMinutes(saved.SaharMinutes))
			sw.iftarSelect.SetSelected(formatMinutes(saved.IftarMinutes))
			sw.saveButton.Disable()

			if err != nil {
				log.Printf("Error saving settings: %v", err)
				sw.setStatus("Saved, but planning failed", widget.WarningImportance)
				return
			}
			sw.setStatus("Settings saved", widget.SuccessImportance)

			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if sw.saveStatusLabel.Text == "Settings saved" {
						sw.setStatus("", widget.MediumImportance)
					}
				})
			}()
		})
		fyne.Do(sw.fa.updateSystemTrayMenu)
	}()
}

func (sw *SettingsWindow) settingsFromUI() models.AlarmSettings {
	return models.AlarmSettings{
		Enabled:      sw.enabledCheck.Checked,
		SaharMinutes: parseMinutes(sw.saharSelect.Selected, sw.saved.SaharMinutes),
		IftarMinutes: parseMinutes(sw.iftarSelect.Selected, sw.saved.IftarMinutes),
	}
}

func (sw *SettingsWindow) hasActualChanges() bool {
	if sw.settingsFromUI() != sw.saved {
		return true
	}
	prefs := sw.fa.currentPrefs()
	return sw.autoStartCheck.Checked != prefs.AutoStart || sw.chimeCheck.Checked != prefs.PlayChime
}

func (sw *SettingsWindow) markChanged() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasActualChanges() {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}

func (sw *SettingsWindow) setStatus(text string, importance widget.Importance) {
	sw.saveStatusLabel.SetText(text)
	sw.saveStatusLabel.Importance = importance
	sw.saveStatusLabel.Refresh()
}

func (sw *SettingsWindow) handleClose() {
	if !sw.hasActualChanges() {
		sw.window.Close()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"You have unsaved changes. Are you sure you want to close?",
		func(confirmed bool) {
			if confirmed {
				sw.window.Close()
			}
		}, sw.window)
}

// minuteOptions returns the select choices, including current if it is not one of them
func minuteOptions(current int) []string {
	values := append([]int{}, minuteChoices...)
	found := false
	for _, v := range values {
		if v == current {
			found = true
			break
		}
	}
	if !found && current >= models.MinPreMinutes && current <= models.MaxPreMinutes {
		values = append(values, current)
		sort.Ints(values)
	}

	options := make([]string, 0, len(values))
	for _, v := range values {
		options = append(options, formatMinutes(v))
	}
	return options
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%d min", m)
}

// parseMinutes parses "15 min" -> 15, falling back when the text is empty or malformed
func parseMinutes(selected string, fallback int) int {
	var val int
	if _, err := fmt.Sscanf(selected, "%d min", &val); err != nil {
		return fallback
	}
	return val
}

func sourceDescription(cfg *models.AppConfig) string {
	switch cfg.Source {
	case models.SourceICal:
		if cfg.ICal != "" {
			return "Event times come from the calendar at " + cfg.ICal
		}
	case models.SourceTimetable:
		if cfg.Timetable != "" {
			return "Event times come from the timetable at " + cfg.Timetable + ". Add days with: fast-alarm timetable set"
		}
	}
	return "No event time source is configured. Set source and ical or timetable in ~/.fast-alarm.yaml, then restart Fast Alarm."
}
