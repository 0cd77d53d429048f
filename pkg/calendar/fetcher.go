package calendar

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/spf13/afero"
)

// ICalSource reads imsak and iftar times from an iCal feed.
// Location is either an http(s) URL or a path on the configured filesystem.
type ICalSource struct {
	Location   string
	SaharNames []string
	IftarNames []string

	fs     afero.Fs
	client *http.Client
}

// ICalOption configures an ICalSource
type ICalOption func(*ICalSource)

// WithFs reads file locations through fs instead of the OS filesystem
func WithFs(fs afero.Fs) ICalOption {
	return func(s *ICalSource) { s.fs = fs }
}

// WithHTTPClient fetches URL locations with client
func WithHTTPClient(client *http.Client) ICalOption {
	return func(s *ICalSource) { s.client = client }
}

func NewICalSource(location string, saharNames, iftarNames []string, opts ...ICalOption) *ICalSource {
	s := &ICalSource{
		Location:   location,
		SaharNames: saharNames,
		IftarNames: iftarNames,
		fs:         afero.NewOsFs(),
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DayTimes returns the first sahur and iftar events found on day.
// Both must be present, otherwise there is no data for the day.
func (s *ICalSource) DayTimes(ctx context.Context, day time.Time) (*models.DayEventTimes, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateICalFormat(body); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	entries, err := decodeEntries(body, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	var sahar, iftar *calendarEntry
	for i := range entries {
		entry := &entries[i]
		switch {
		case sahar == nil && matchesAny(entry.Title, s.SaharNames):
			sahar = entry
		case iftar == nil && matchesAny(entry.Title, s.IftarNames):
			iftar = entry
		}
	}

	if sahar == nil || iftar == nil {
		log.Printf("[ICAL] No complete day in %s for %s (sahur found: %v, iftar found: %v)",
			s.Location, models.DateKey(day), sahar != nil, iftar != nil)
		return nil, nil
	}

	return &models.DayEventTimes{
		Date:       models.DateKey(day),
		Sahar:      models.FormatClock(sahar.Start.In(day.Location())),
		Iftar:      models.FormatClock(iftar.Start.In(day.Location())),
		CalendarID: s.Location,
	}, nil
}

func (s *ICalSource) fetch(ctx context.Context) (string, error) {
	if !isURL(s.Location) {
		body, err := afero.ReadFile(s.fs, s.Location)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", s.Location, err)
		}
		return string(body), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// decodeEntries returns the usable events that start inside [from, to), in feed order
func decodeEntries(body string, from, to time.Time) ([]calendarEntry, error) {
	decoder := ical.NewDecoder(strings.NewReader(body))
	entries := []calendarEntry{}
	seen := make(map[string]bool)
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			normalizeComponentTimezones(comp)
			entry := parseEntry(comp, from.Location())

			candidates := []calendarEntry{entry}
			if comp.Props.Get(ical.PropRecurrenceRule) != nil {
				candidates = expandRecurring(entry, comp, from, to)
			}

			for _, candidate := range candidates {
				if !shouldInclude(candidate, from, to, stats) {
					continue
				}
				key := candidate.Title + "|" + candidate.Start.Format(time.RFC3339)
				if seen[key] {
					stats.filteredDuplicates++
					continue
				}
				seen[key] = true
				entries = append(entries, candidate)
			}
		}
	}

	stats.logSummary(len(entries))
	return entries, nil
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(body)

	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("%w: received HTML instead of iCalendar data, check if the URL requires authentication", ErrInvalidFeed)
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("%w: expected BEGIN:VCALENDAR, got: %s", ErrInvalidFeed, preview)
	}

	return nil
}

func matchesAny(title string, names []string) bool {
	lower := strings.ToLower(title)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
