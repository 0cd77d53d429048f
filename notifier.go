package main

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/platform"
)

// desktopChannel shows notifications through the OS notification center
type desktopChannel struct {
	app fyne.App
}

func (d desktopChannel) Show(n models.Notification) error {
	d.app.SendNotification(fyne.NewNotification(n.Title, n.Message))
	return nil
}

// dialogPrompter asks for notification permission with a confirm dialog.
// It must not be called from the UI goroutine.
type dialogPrompter struct {
	fa *FastAlarm
}

func (p dialogPrompter) Prompt(ctx context.Context) (bool, error) {
	answer := make(chan bool, 1)

	fyne.Do(func() {
		parent, temporary := p.fa.dialogParent()
		platform.BringToFront()

		confirm := dialog.NewConfirm("Notifications",
			"Allow Fast Alarm to show desktop notifications when an alarm fires?",
			func(allowed bool) {
				answer <- allowed
				if temporary {
					parent.Close()
				}
			}, parent)
		confirm.SetConfirmText("Allow")
		confirm.SetDismissText("Don't Allow")
		confirm.Show()
	})

	select {
	case allowed := <-answer:
		return allowed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// dialogParent returns the settings window, or a small temporary window
func (fa *FastAlarm) dialogParent() (w fyne.Window, temporary bool) {
	if fa.settingsWindow != nil {
		return fa.settingsWindow.window, false
	}
	w = fa.app.NewWindow("Fast Alarm")
	w.Resize(fyne.NewSize(420, 180))
	w.CenterOnScreen()
	w.Show()
	return w, true
}
