package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/borgmon/fast-alarm/pkg/models"
)

const settingsKey = "alarmSettings"

// SettingsStore handles alarm settings persistence
type SettingsStore struct {
	kv KV
}

// NewSettingsStore creates a new SettingsStore instance
func NewSettingsStore(kv KV) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Load returns the stored settings merged over the defaults.
// On a read or decode failure the defaults are returned together with the error.
func (ss *SettingsStore) Load() (models.AlarmSettings, error) {
	defaults := models.DefaultSettings()

	data, err := ss.kv.Get(settingsKey)
	if errors.Is(err, ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("read settings: %w", err)
	}

	var patch models.SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return defaults, fmt.Errorf("decode settings: %w", err)
	}

	return models.MergeSettings(defaults, patch), nil
}

// Save clamps and writes settings, returning what was stored
func (ss *SettingsStore) Save(settings models.AlarmSettings) (models.AlarmSettings, error) {
	settings = settings.Normalize()

	data, err := json.Marshal(settings)
	if err != nil {
		return settings, fmt.Errorf("encode settings: %w", err)
	}
	if err := ss.kv.Set(settingsKey, data); err != nil {
		return settings, fmt.Errorf("write settings: %w", err)
	}
	return settings, nil
}

// Update applies a partial change on top of the stored settings
func (ss *SettingsStore) Update(patch models.SettingsPatch) (models.AlarmSettings, error) {
	current, err := ss.Load()
	if err != nil {
		return current, err
	}
	return ss.Save(models.MergeSettings(current, patch))
}
