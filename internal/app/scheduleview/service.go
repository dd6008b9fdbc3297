package scheduleview

import (
	"sort"
	"time"

	"waste-schedule-service/internal/engine"
	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/timeutil"
)

// Store defines the contract for reading the latest refresh snapshot.
type Store interface {
	Latest() (engine.Result, bool)
	Schedule() schedule.Schedule
	Descriptions() schedule.Descriptions
}

// Collection is one upcoming pickup for one waste category.
type Collection struct {
	Category string    `json:"category"`
	Color    string    `json:"color"`
	Date     time.Time `json:"date"`
	DaysAway int       `json:"daysAway"`
}

// Overview is the full read-model served to clients.
type Overview struct {
	Schedule    schedule.Schedule `json:"schedule"`
	PeriodID    string            `json:"periodId"`
	PeriodStart string            `json:"periodStart"`
	PeriodEnd   string            `json:"periodEnd"`
	FromCache   bool              `json:"fromCache"`
	RefreshedAt time.Time         `json:"refreshedAt"`
}

// Service coordinates schedule read operations using a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Overview returns the current schedule snapshot, or false before the first
// successful refresh.
func (s *Service) Overview() (Overview, bool) {
	result, ok := s.store.Latest()
	if !ok {
		return Overview{}, false
	}
	return Overview{
		Schedule:    result.Schedule,
		PeriodID:    result.Baseline.Period.ID,
		PeriodStart: result.Baseline.Period.StartDate,
		PeriodEnd:   result.Baseline.Period.EndDate,
		FromCache:   result.FromCache,
		RefreshedAt: result.RefreshedAt,
	}, true
}

// Categories returns the known waste categories in provider order.
func (s *Service) Categories() []schedule.Category {
	descs := s.store.Descriptions()
	out := make([]schedule.Category, 0, len(descs))
	for _, cat := range descs {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Order, out[j].Order
		if a != b {
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CollectionsOn lists the categories collected on the given calendar day.
func (s *Service) CollectionsOn(day time.Time) []Collection {
	return s.collect(func(date time.Time) bool {
		return timeutil.SameDay(date, day)
	})
}

// Today lists the categories collected today.
func (s *Service) Today() []Collection {
	return s.CollectionsOn(s.now())
}

// Tomorrow lists the categories collected tomorrow.
func (s *Service) Tomorrow() []Collection {
	return s.CollectionsOn(s.now().AddDate(0, 0, 1))
}

// Next returns every collection happening on the nearest day with a pickup,
// today included. False means no future dates are known.
func (s *Service) Next() ([]Collection, bool) {
	today := timeutil.DateOnly(s.now())

	var nearest time.Time
	for _, dates := range s.store.Schedule() {
		for _, date := range dates {
			if date.Before(today) {
				continue
			}
			if nearest.IsZero() || date.Before(nearest) {
				nearest = date
			}
		}
	}
	if nearest.IsZero() {
		return nil, false
	}
	return s.CollectionsOn(nearest), true
}

// Upcoming lists future collections in ascending date order, today included,
// capped at limit entries. A limit of zero or less means no cap.
func (s *Service) Upcoming(limit int) []Collection {
	today := timeutil.DateOnly(s.now())
	out := s.collect(func(date time.Time) bool {
		return !date.Before(today)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Service) collect(match func(time.Time) bool) []Collection {
	sched := s.store.Schedule()
	descs := s.store.Descriptions()
	today := timeutil.DateOnly(s.now())

	var out []Collection
	for name, dates := range sched {
		for _, date := range dates {
			if !match(date) {
				continue
			}
			out = append(out, Collection{
				Category: name,
				Color:    descs[name].Color,
				Date:     date,
				DaysAway: int(date.Sub(today).Hours() / 24),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
