package notify

import (
	"context"
	"errors"
	"log"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// Dispatcher prefers the background channel, falls back to the gated direct
// channel, and always raises an in-app toast
type Dispatcher struct {
	background BackgroundChannel
	direct     *Gated
	status     StatusSink
}

// NewDispatcher builds a Dispatcher. background may be nil.
func NewDispatcher(background BackgroundChannel, direct *Gated, status StatusSink) *Dispatcher {
	if status == nil {
		status = LogStatus{}
	}
	return &Dispatcher{background: background, direct: direct, status: status}
}

func (d *Dispatcher) Notify(_ context.Context, n models.Notification) {
	defer d.status.Toast(n)

	if d.background != nil && d.background.Connected() {
		err := d.background.Post(n)
		if err == nil {
			return
		}
		log.Printf("[NOTIFY] Background hand-off failed, showing directly: %v", err)
	}

	err := d.direct.Show(n)
	switch {
	case errors.Is(err, ErrPermissionDenied):
		log.Printf("[NOTIFY] No notification permission, skipped %q", n.Title)
	case err != nil:
		log.Printf("[NOTIFY] Failed to show %q: %v", n.Title, err)
	}
}
