package notify

import (
	"log"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// DirectChannel shows a notification on the desktop right away
type DirectChannel interface {
	Show(n models.Notification) error
}

// BackgroundChannel hands a notification to the background context
type BackgroundChannel interface {
	Connected() bool
	Post(n models.Notification) error
}

// StatusSink is the in-app status surface
type StatusSink interface {
	Toast(n models.Notification)
	Warn(message string)
}

// Gated shows notifications through a direct channel only while permission is granted
type Gated struct {
	perms  *Permissions
	direct DirectChannel
}

func NewGated(perms *Permissions, direct DirectChannel) *Gated {
	return &Gated{perms: perms, direct: direct}
}

func (g *Gated) Show(n models.Notification) error {
	if g.perms.Current() != PermissionGranted {
		return ErrPermissionDenied
	}
	return g.direct.Show(n)
}

// LogStatus is a StatusSink for headless runs
type LogStatus struct{}

func (LogStatus) Toast(n models.Notification) {
	log.Printf("[NOTIFY] %s: %s", n.Title, n.Message)
}

func (LogStatus) Warn(message string) {
	log.Printf("[NOTIFY] Warning: %s", message)
}
