package models

import "time"

// AlarmKind identifies one of the four daily alarms
type AlarmKind string

const (
	AlarmKindSaharPre AlarmKind = "sahar-pre" // Minutes before imsak
	AlarmKindSahar    AlarmKind = "sahar"     // Imsak, end of sahur
	AlarmKindIftarPre AlarmKind = "iftar-pre" // Minutes before iftar
	AlarmKindIftar    AlarmKind = "iftar"     // Iftar, break the fast
)

// AlarmKinds lists every kind in the order they occur during a day
var AlarmKinds = []AlarmKind{AlarmKindSaharPre, AlarmKindSahar, AlarmKindIftarPre, AlarmKindIftar}

// Valid reports whether k is one of the known kinds
func (k AlarmKind) Valid() bool {
	switch k {
	case AlarmKindSaharPre, AlarmKindSahar, AlarmKindIftarPre, AlarmKindIftar:
		return true
	}
	return false
}

// IsPre reports whether k is a reminder ahead of its event
func (k AlarmKind) IsPre() bool {
	return k == AlarmKindSaharPre || k == AlarmKindIftarPre
}

// Event returns the daily event the alarm belongs to
func (k AlarmKind) Event() Event {
	if k == AlarmKindIftarPre || k == AlarmKindIftar {
		return EventIftar
	}
	return EventSahar
}

// AlarmState tracks an alarm through its lifecycle
type AlarmState string

const (
	AlarmStateScheduled         AlarmState = "Scheduled"         // Timer armed
	AlarmStateFired             AlarmState = "Fired"             // Delivered live or recovered
	AlarmStateMissedRecoverable AlarmState = "MissedRecoverable" // Missed, still inside the recovery window
	AlarmStateMissedStale       AlarmState = "MissedStale"       // Missed, too old to surface
	AlarmStateSuppressed        AlarmState = "Suppressed"        // Marked triggered without notifying
)

// Settle moves a missed state to its terminal state. Other states are returned unchanged.
func (st AlarmState) Settle() AlarmState {
	switch st {
	case AlarmStateMissedRecoverable:
		return AlarmStateFired
	case AlarmStateMissedStale:
		return AlarmStateSuppressed
	}
	return st
}

// PlannedAlarm is one alarm computed for a given day
type PlannedAlarm struct {
	Kind      AlarmKind // Which of the four daily alarms
	Instant   time.Time // When this alarm should fire
	Title     string    // Notification title
	Message   string    // Notification body
	Triggered bool      // Fired, recovered or suppressed; never reset
}

// State is Scheduled until the alarm is triggered, Fired after
func (a PlannedAlarm) State() AlarmState {
	if a.Triggered {
		return AlarmStateFired
	}
	return AlarmStateScheduled
}

// DateLayout is the calendar date format used for records and timetables
const DateLayout = "2006-01-02"

// DateKey returns the calendar date of t in DateLayout
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
