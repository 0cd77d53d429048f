package models

const (
	MinPreMinutes     = 1  // Smallest allowed pre-alarm offset
	MaxPreMinutes     = 60 // Largest allowed pre-alarm offset
	DefaultPreMinutes = 15 // Offset used when none is stored
)

// AlarmSettings holds the user's alarm preferences
type AlarmSettings struct {
	Enabled      bool `json:"enabled"`      // Alarms on or off
	SaharMinutes int  `json:"saharMinutes"` // Pre-alarm offset before imsak
	IftarMinutes int  `json:"iftarMinutes"` // Pre-alarm offset before iftar
}

// SettingsPatch is a partial update; nil fields keep the base value
type SettingsPatch struct {
	Enabled      *bool `json:"enabled,omitempty"`
	SaharMinutes *int  `json:"saharMinutes,omitempty"`
	IftarMinutes *int  `json:"iftarMinutes,omitempty"`
}

// DefaultSettings returns the settings used before the user saves anything
func DefaultSettings() AlarmSettings {
	return AlarmSettings{
		Enabled:      false,
		SaharMinutes: DefaultPreMinutes,
		IftarMinutes: DefaultPreMinutes,
	}
}

// MergeSettings applies patch on top of base and clamps the result
func MergeSettings(base AlarmSettings, patch SettingsPatch) AlarmSettings {
	merged := base
	if patch.Enabled != nil {
		merged.Enabled = *patch.Enabled
	}
	if patch.SaharMinutes != nil {
		merged.SaharMinutes = *patch.SaharMinutes
	}
	if patch.IftarMinutes != nil {
		merged.IftarMinutes = *patch.IftarMinutes
	}
	return merged.Normalize()
}

// Normalize clamps both offsets into [MinPreMinutes, MaxPreMinutes]
func (s AlarmSettings) Normalize() AlarmSettings {
	s.SaharMinutes = clampMinutes(s.SaharMinutes)
	s.IftarMinutes = clampMinutes(s.IftarMinutes)
	return s
}

// PreMinutes returns the configured offset for an event
func (s AlarmSettings) PreMinutes(e Event) int {
	if e == EventIftar {
		return s.IftarMinutes
	}
	return s.SaharMinutes
}

func clampMinutes(m int) int {
	if m < MinPreMinutes {
		return MinPreMinutes
	}
	if m > MaxPreMinutes {
		return MaxPreMinutes
	}
	return m
}
