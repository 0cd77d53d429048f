package models

// Event time source kinds
const (
	SourceICal      = "ical"
	SourceTimetable = "timetable"
	SourceNone      = "none"
)

// Notification permission policies for the headless daemon
const (
	NotificationsPrompt = "prompt"
	NotificationsAllow  = "allow"
	NotificationsDeny   = "deny"
)

// AppConfig holds application configuration that is not a user alarm setting
type AppConfig struct {
	DataDir       string   `json:"data_dir"`      // diskv base path for the headless daemon
	Source        string   `json:"source"`        // ical, timetable or none
	ICal          string   `json:"ical"`          // iCal URL or file path
	Timetable     string   `json:"timetable"`     // SQLite timetable path
	Socket        string   `json:"socket"`        // control socket path, empty disables it
	SaharNames    []string `json:"sahar_names"`   // iCal summaries treated as imsak
	IftarNames    []string `json:"iftar_names"`   // iCal summaries treated as iftar
	AutoStart     bool     `json:"autostart"`     // launch at login
	Notifications string   `json:"notifications"` // prompt, allow or deny
	RecoveryPick  string   `json:"recovery_pick"` // first or latest
	ReplanCron    string   `json:"replan_cron"`   // when to re-plan, five-field cron
}

// NeedsConfiguration returns true if no usable event time source is configured
func (c *AppConfig) NeedsConfiguration() bool {
	switch c.Source {
	case SourceICal:
		return c.ICal == ""
	case SourceTimetable:
		return c.Timetable == ""
	}
	return true
}
