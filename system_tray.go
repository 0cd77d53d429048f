package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/planner"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
)

func (fa *FastAlarm) setupSystemTray() {
	fa.updateSystemTrayMenu()
}

func (fa *FastAlarm) updateSystemTrayMenu() {
	desk, ok := fa.app.(desktop.App)
	if !ok {
		return
	}

	snap := fa.engine.Snapshot()
	menuItems := []*fyne.MenuItem{disabledItem(statusLine(snap))}

	if snap.Settings.Enabled && fa.engine.Permissions.Current() == notify.PermissionDenied {
		menuItems = append(menuItems, disabledItem("Notifications blocked, alarms show here only"))
	}
	menuItems = append(menuItems, fyne.NewMenuItemSeparator())

	// Add upcoming alarms section at the top
	if upcoming := upcomingLines(snap.Alarms, 4); len(upcoming) > 0 {
		menuItems = append(menuItems, disabledItem("Upcoming Today:"))
		for _, line := range upcoming {
			menuItems = append(menuItems, disabledItem("  "+line))
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	if last, missed := fa.status.lines(); last != nil || missed != "" {
		if missed != "" {
			menuItems = append(menuItems, disabledItem(truncateString(missed, 60)))
		}
		if last != nil {
			menuItems = append(menuItems, disabledItem("Last: "+truncateString(last.Title, 40)))
		}
		menuItems = append(menuItems,
			fyne.NewMenuItem("Stop Chime", func() {
				fa.status.stopChime()
			}),
			fyne.NewMenuItemSeparator(),
		)
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Settings", func() {
			fa.showSettingsWindow()
		}),
		fyne.NewMenuItem("Check Now", func() {
			go fa.checkNow()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			fa.quit()
		}),
	)

	menu := fyne.NewMenu("Fast Alarm", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.InfoIcon())
}

// statusLine summarises the plan for the top of the menu
func statusLine(snap scheduler.Snapshot) string {
	if !snap.Settings.Enabled {
		return "Alarms off"
	}
	if snap.Date == "" {
		return "Alarms on, no times for today"
	}
	return fmt.Sprintf("Alarms on, %d armed for %s", snap.Armed, snap.Date)
}

// upcomingLines returns up to limit alarms that have not fired yet
func upcomingLines(alarms []models.PlannedAlarm, limit int) []string {
	lines := []string{}
	for _, a := range alarms {
		if a.Triggered {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - %s", a.Instant.Local().Format(time.Kitchen), planner.Label(a.Kind)))
		if len(lines) == limit {
			break
		}
	}
	return lines
}

func disabledItem(label string) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, nil)
	item.Disabled = true
	return item
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
