package store

import (
	"fyne.io/fyne/v2"
)

// PreferencesKV stores values in Fyne preferences, the tray app's durable store.
// Values are kept as strings; an empty string reads as not found.
type PreferencesKV struct {
	prefs fyne.Preferences
}

// NewPreferencesKV creates a KV backed by the app's preferences
func NewPreferencesKV(app fyne.App) *PreferencesKV {
	return &PreferencesKV{prefs: app.Preferences()}
}

func (p *PreferencesKV) Get(key string) ([]byte, error) {
	value := p.prefs.String(key)
	if value == "" {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (p *PreferencesKV) Set(key string, value []byte) error {
	p.prefs.SetString(key, string(value))
	return nil
}

func (p *PreferencesKV) Remove(key string) error {
	p.prefs.RemoveValue(key)
	return nil
}
