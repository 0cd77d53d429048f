package calendar

import (
	"log"
	"time"
)

type filterStats struct {
	totalEvents         int
	filteredMissingTime int
	filteredCancelled   int
	filteredAllDay      int
	filteredOutsideDay  int
	filteredDuplicates  int
}

func shouldInclude(entry calendarEntry, from, to time.Time, stats *filterStats) bool {
	if entry.Start.IsZero() {
		stats.filteredMissingTime++
		return false
	}

	if entry.Status == "CANCELLED" {
		stats.filteredCancelled++
		log.Printf("[ICAL] Skipping cancelled event %q at %s", entry.Title, entry.Start.Format("2006-01-02 15:04"))
		return false
	}

	if entry.AllDay {
		stats.filteredAllDay++
		return false
	}

	if entry.Start.Before(from) || !entry.Start.Before(to) {
		stats.filteredOutsideDay++
		return false
	}

	return true
}

func (s *filterStats) logSummary(includedCount int) {
	filtered := s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay + s.filteredOutsideDay + s.filteredDuplicates
	log.Printf("[ICAL] Events: %d, included: %d, filtered: %d", s.totalEvents, includedCount, filtered)
	if filtered > 0 && includedCount == 0 {
		log.Printf("[ICAL] Filtered breakdown: %d cancelled, %d all-day, %d other days, %d missing time, %d duplicates",
			s.filteredCancelled, s.filteredAllDay, s.filteredOutsideDay, s.filteredMissingTime, s.filteredDuplicates)
	}
}
