package main

import (
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/borgmon/fast-alarm/pkg/audio"
	"github.com/borgmon/fast-alarm/pkg/engine"
	"github.com/borgmon/fast-alarm/pkg/models"
)

var _ engine.Status = (*trayStatus)(nil)

// trayStatus is the in-app status surface: it chimes, and keeps the tray
// menu in sync with the scheduler
type trayStatus struct {
	fa *FastAlarm

	mu     sync.Mutex
	player *audio.Player
	missed string
	last   *models.Notification
}

func (s *trayStatus) Toast(n models.Notification) {
	s.mu.Lock()
	s.last = &n
	s.mu.Unlock()

	log.Printf("[NOTIFY] In-app: %s - %s", n.Title, n.Message)
	if s.fa.currentPrefs().PlayChime {
		s.chime(n.Kind)
	}
	s.Refresh()
}

func (s *trayStatus) Warn(message string) {
	log.Printf("[NOTIFY] %s", message)
	s.Refresh()
}

func (s *trayStatus) Refresh() {
	fyne.Do(s.fa.updateSystemTrayMenu)
}

func (s *trayStatus) Announce(title, summary string) {
	s.mu.Lock()
	s.missed = title + ": " + summary
	s.mu.Unlock()

	log.Printf("[RECOVERY] %s: %s", title, summary)
	s.Refresh()
}

// lines returns the last delivered notification and the missed-alarm summary
func (s *trayStatus) lines() (last *models.Notification, missed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.missed
}

func (s *trayStatus) chime(kind models.AlarmKind) {
	notes, repeats := audio.EventChime, 3
	if kind.IsPre() {
		notes, repeats = audio.ReminderChime, 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Stop()
	s.player = audio.Play(audio.Render(notes), repeats)
}

func (s *trayStatus) stopChime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Stop()
	s.player = nil
}
