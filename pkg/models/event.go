package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is one of the two daily occurrences alarms are planned around
type Event string

const (
	EventSahar Event = "sahar" // Pre-dawn cutoff (imsak)
	EventIftar Event = "iftar" // Evening fast-breaking
)

// ErrInvalidClock is returned for time-of-day strings that are not HH:MM
var ErrInvalidClock = errors.New("invalid clock time")

// DayEventTimes holds the two event clock times for one calendar date
type DayEventTimes struct {
	Date       string // YYYY-MM-DD
	Sahar      string // HH:MM
	Iftar      string // HH:MM
	CalendarID string // Calendar the times were read from, may be empty
}

// Time returns the HH:MM value for the given event
func (d *DayEventTimes) Time(e Event) string {
	if e == EventIftar {
		return d.Iftar
	}
	return d.Sahar
}

// Validate checks both clock values
func (d *DayEventTimes) Validate() error {
	if _, _, err := ParseClock(d.Sahar); err != nil {
		return fmt.Errorf("sahar: %w", err)
	}
	if _, _, err := ParseClock(d.Iftar); err != nil {
		return fmt.Errorf("iftar: %w", err)
	}
	return nil
}

// ParseClock parses an HH:MM string into hour and minute
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return hour, minute, nil
}

// FormatClock formats t as HH:MM
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// ClockOn combines the date of day with an HH:MM value on day's location
func ClockOn(day time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
