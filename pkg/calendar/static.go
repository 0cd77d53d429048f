package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// Static serves event times from memory
type Static struct {
	mu   sync.RWMutex
	days map[string]models.DayEventTimes
}

func NewStatic(days ...models.DayEventTimes) *Static {
	s := &Static{days: make(map[string]models.DayEventTimes, len(days))}
	for _, d := range days {
		s.days[d.Date] = d
	}
	return s
}

// Set replaces the times for d.Date
func (s *Static) Set(d models.DayEventTimes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[d.Date] = d
}

func (s *Static) DayTimes(_ context.Context, day time.Time) (*models.DayEventTimes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.days[models.DateKey(day)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}
