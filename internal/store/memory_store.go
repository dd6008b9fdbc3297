package store

import (
	"sync"
	"time"

	"waste-schedule-service/internal/engine"
	"waste-schedule-service/internal/schedule"
)

// MemoryStore keeps a thread-safe snapshot of the latest refresh result in
// memory. Readers get copies; only the poller writes.
type MemoryStore struct {
	mu     sync.RWMutex
	result engine.Result
	loaded bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Latest returns the most recent result and whether one has been stored yet.
func (s *MemoryStore) Latest() (engine.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.copyResult(), s.loaded
}

// Schedule returns the current schedule map, or nil before the first refresh.
func (s *MemoryStore) Schedule() schedule.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil
	}
	return copySchedule(s.result.Schedule)
}

// Descriptions returns the current category descriptions keyed by name.
func (s *MemoryStore) Descriptions() schedule.Descriptions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil
	}
	return copyDescriptions(s.result.Descriptions)
}

// Baseline returns the persisted acquisition state from the latest result.
func (s *MemoryStore) Baseline() (schedule.Baseline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.result.Baseline, s.loaded
}

// SetResult replaces the stored snapshot with a new refresh result.
func (s *MemoryStore) SetResult(result engine.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = result
	s.loaded = true
}

func (s *MemoryStore) copyResult() engine.Result {
	out := s.result
	out.Schedule = copySchedule(s.result.Schedule)
	out.Descriptions = copyDescriptions(s.result.Descriptions)
	return out
}

func copySchedule(in schedule.Schedule) schedule.Schedule {
	if in == nil {
		return nil
	}
	out := make(schedule.Schedule, len(in))
	for name, dates := range in {
		copied := make([]time.Time, len(dates))
		copy(copied, dates)
		out[name] = copied
	}
	return out
}

func copyDescriptions(in schedule.Descriptions) schedule.Descriptions {
	if in == nil {
		return nil
	}
	out := make(schedule.Descriptions, len(in))
	for name, cat := range in {
		out[name] = cat
	}
	return out
}
