package models

// Notification is a user-visible alert for a fired or recovered alarm
type Notification struct {
	Title              string
	Message            string
	Kind               AlarmKind
	Tag                string // Replaces an earlier notification with the same tag
	Icon               string
	RequireInteraction bool // Stays on screen until dismissed
}

// NotificationFor builds the notification delivered when alarm fires
func NotificationFor(alarm PlannedAlarm) Notification {
	return Notification{
		Title:              alarm.Title,
		Message:            alarm.Message,
		Kind:               alarm.Kind,
		Tag:                "fast-alarm-" + string(alarm.Kind),
		RequireInteraction: !alarm.Kind.IsPre(),
	}
}
