package calendar

import (
	"log"
	"time"

	"github.com/emersion/go-ical"
)

// expandRecurring returns the occurrences of comp's series that start in [from, to].
// Occurrences keep the wall clock time of DTSTART in its own zone.
func expandRecurring(base calendarEntry, comp *ical.Component, from, to time.Time) []calendarEntry {
	set, err := comp.RecurrenceSet(from.Location())
	if err != nil {
		log.Printf("[ICAL] Skipping series %q: %v", base.Title, err)
		return nil
	}
	if set == nil {
		return []calendarEntry{base}
	}

	occurrences := []calendarEntry{}
	for _, start := range set.Between(from, to, true) {
		instance := base
		instance.Start = start
		occurrences = append(occurrences, instance)
	}
	return occurrences
}
