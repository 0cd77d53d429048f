package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// ErrInvalidFeed is returned when an iCal location does not hold calendar data
var ErrInvalidFeed = errors.New("invalid iCalendar feed")

// Source provides today's two event times.
// A nil result with a nil error means there is no data for the day.
type Source interface {
	DayTimes(ctx context.Context, day time.Time) (*models.DayEventTimes, error)
}

// FromConfig opens the source selected by cfg. The returned close func is never nil.
func FromConfig(cfg *models.AppConfig) (Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case models.SourceICal:
		if cfg.ICal == "" {
			return nil, noop, fmt.Errorf("source %q needs an ical location", cfg.Source)
		}
		return NewICalSource(cfg.ICal, cfg.SaharNames, cfg.IftarNames), noop, nil
	case models.SourceTimetable:
		tt, err := OpenTimetable(cfg.Timetable)
		if err != nil {
			return nil, noop, err
		}
		return tt, tt.Close, nil
	case models.SourceNone, "":
		return NewStatic(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown event time source %q", cfg.Source)
}
