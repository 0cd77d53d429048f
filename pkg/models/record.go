package models

import "time"

// RecordEntry is the durable form of a planned alarm
type RecordEntry struct {
	Type      AlarmKind `json:"type"`
	Time      time.Time `json:"time"`
	Triggered bool      `json:"triggered"`
}

// AlarmRecord is the persisted snapshot of one day's plan, used for missed-alarm recovery
type AlarmRecord struct {
	Alarms     []RecordEntry `json:"alarms"`
	CalendarID string        `json:"calendarId,omitempty"`
	Date       string        `json:"date"`
}

// NewAlarmRecord mirrors a plan into a record; every entry starts untriggered
func NewAlarmRecord(date, calendarID string, alarms []PlannedAlarm) *AlarmRecord {
	record := &AlarmRecord{
		Alarms:     make([]RecordEntry, 0, len(alarms)),
		CalendarID: calendarID,
		Date:       date,
	}
	for _, alarm := range alarms {
		record.Alarms = append(record.Alarms, RecordEntry{
			Type: alarm.Kind,
			Time: alarm.Instant,
		})
	}
	return record
}

// IsFor reports whether the record was written for the given date
func (r *AlarmRecord) IsFor(date string) bool {
	return r != nil && r.Date == date
}

// MarkTriggered flips the matching entry to triggered and reports whether anything changed.
// There is deliberately no way to flip an entry back.
func (r *AlarmRecord) MarkTriggered(kind AlarmKind, instant time.Time) bool {
	for i := range r.Alarms {
		entry := &r.Alarms[i]
		if entry.Type != kind || !entry.Time.Equal(instant) {
			continue
		}
		if entry.Triggered {
			return false
		}
		entry.Triggered = true
		return true
	}
	return false
}

// Pending returns the entries that have not been triggered yet
func (r *AlarmRecord) Pending() []RecordEntry {
	pending := []RecordEntry{}
	for _, entry := range r.Alarms {
		if !entry.Triggered {
			pending = append(pending, entry)
		}
	}
	return pending
}
