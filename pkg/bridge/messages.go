// Package bridge carries typed messages between the main context, which owns
// the scheduler, and the background context, which keeps checking for due
// alarms and shows notifications while the main window is hidden.
//
// The two sides share no memory. Every message is JSON encoded into an
// Envelope and passed over a buffered channel.
package bridge

import (
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// MessageType names a message on the wire
type MessageType string

const (
	TypeUpdateSettings   MessageType = "UPDATE_SETTINGS"
	TypeCheckNow         MessageType = "CHECK_NOW"
	TypeTriggerAlarm     MessageType = "TRIGGER_ALARM"
	TypeShowNotification MessageType = "SHOW_NOTIFICATION"
	TypeRequestAlarmData MessageType = "REQUEST_ALARM_DATA"
	TypeCheckAlarms      MessageType = "CHECK_ALARMS"
)

// Message is one of the closed set of message structs in this package
type Message interface {
	Type() MessageType
	message()
}

// UpdateSettings tells the background context the settings and the next pending alarm
type UpdateSettings struct {
	Settings         models.AlarmSettings `json:"settings"`
	NextAlarmInstant *time.Time           `json:"nextAlarmTime,omitempty"`
	NextAlarmType    models.AlarmKind     `json:"nextAlarmType,omitempty"`
}

// CheckNow asks the background context to check the next alarm immediately
type CheckNow struct{}

// TriggerAlarm tells the main context an alarm came due
type TriggerAlarm struct {
	AlarmType models.AlarmKind `json:"alarmType"`
	Message   string           `json:"message"`
	Title     string           `json:"title"`
}

// ShowNotification asks the background context to display a notification
type ShowNotification struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Icon               string `json:"icon,omitempty"`
	Tag                string `json:"tag,omitempty"`
	RequireInteraction bool   `json:"requireInteraction"`
}

// RequestAlarmData asks the main context to republish UpdateSettings
type RequestAlarmData struct{}

// CheckAlarms asks the main context to deliver anything overdue
type CheckAlarms struct{}

func (UpdateSettings) Type() MessageType   { return TypeUpdateSettings }
func (CheckNow) Type() MessageType         { return TypeCheckNow }
func (TriggerAlarm) Type() MessageType     { return TypeTriggerAlarm }
func (ShowNotification) Type() MessageType { return TypeShowNotification }
func (RequestAlarmData) Type() MessageType { return TypeRequestAlarmData }
func (CheckAlarms) Type() MessageType      { return TypeCheckAlarms }

func (UpdateSettings) message()   {}
func (CheckNow) message()         {}
func (TriggerAlarm) message()     {}
func (ShowNotification) message() {}
func (RequestAlarmData) message() {}
func (CheckAlarms) message()      {}

// ShowNotificationFor converts a notification into its wire form
func ShowNotificationFor(n models.Notification) ShowNotification {
	return ShowNotification{
		Title:              n.Title,
		Body:               n.Message,
		Icon:               n.Icon,
		Tag:                n.Tag,
		RequireInteraction: n.RequireInteraction,
	}
}

// Notification converts the wire form back
func (m ShowNotification) Notification() models.Notification {
	return models.Notification{
		Title:              m.Title,
		Message:            m.Body,
		Icon:               m.Icon,
		Tag:                m.Tag,
		RequireInteraction: m.RequireInteraction,
	}
}
