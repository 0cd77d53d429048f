package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

// calendarEntry is the part of a VEVENT the sources care about
type calendarEntry struct {
	UID    string
	Title  string
	Start  time.Time
	Status string
	AllDay bool
}

var cancelledTitle = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func parseEntry(comp *ical.Component, loc *time.Location) calendarEntry {
	entry := calendarEntry{}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		entry.UID = uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		entry.Title = strings.TrimSpace(summaryProp.Value)
	}

	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		entry.AllDay = strings.EqualFold(startProp.Params.Get(ical.ParamValue), "DATE") || len(startProp.Value) == len("20060102")
		if t, err := parseDateTimeProperty(startProp, loc); err == nil {
			entry.Start = t
		}
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		entry.Status = strings.ToUpper(statusProp.Value)
	}

	// Some publishers only rename the event when they cancel it
	if entry.Status != "CANCELLED" && isCancelledTitle(entry.Title) {
		entry.Status = "CANCELLED"
	}

	return entry
}

func parseDateTimeProperty(prop *ical.Prop, loc *time.Location) (time.Time, error) {
	if t, err := prop.DateTime(loc); err == nil {
		return t.In(loc), nil
	}

	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}

func isCancelledTitle(title string) bool {
	clean := cancelledTitle.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}
