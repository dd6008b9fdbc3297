package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"waste-schedule-service/internal/schedule"
)

const (
	baselineFile = "baseline.json"
	scheduleFile = "schedule.json"
)

// Store defines how acquisition state and cached schedules are persisted
// across restarts.
type Store interface {
	SaveBaseline(baseline schedule.Baseline) error
	LoadBaseline() (schedule.Baseline, bool, error)
	SaveSchedule(snap ScheduleSnapshot) error
	LoadSchedule() (ScheduleSnapshot, bool, error)
}

// ScheduleSnapshot is the on-disk shape of the last successful refresh.
type ScheduleSnapshot struct {
	Schedule     schedule.Schedule     `json:"schedule"`
	Descriptions schedule.Descriptions `json:"descriptions"`
	RefreshedAt  time.Time             `json:"refreshedAt"`
}

// FSStore persists snapshots as JSON files under a base directory.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// BasePath exposes the store root path (primarily for testing).
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SaveBaseline writes the acquisition baseline to disk atomically.
func (s *FSStore) SaveBaseline(baseline schedule.Baseline) error {
	return s.writeJSON(baselineFile, baseline)
}

// LoadBaseline reads the persisted baseline. A missing file is not an error;
// the second return value reports whether a baseline was found.
func (s *FSStore) LoadBaseline() (schedule.Baseline, bool, error) {
	var baseline schedule.Baseline
	ok, err := s.readJSON(baselineFile, &baseline)
	if err != nil {
		return schedule.Baseline{}, false, err
	}
	return baseline, ok, nil
}

// SaveSchedule writes the last-known-good schedule snapshot to disk.
func (s *FSStore) SaveSchedule(snap ScheduleSnapshot) error {
	if snap.Schedule.Empty() || len(snap.Descriptions) == 0 {
		return errors.New("refusing to persist empty schedule snapshot")
	}
	return s.writeJSON(scheduleFile, snap)
}

// LoadSchedule reads the cached schedule snapshot. A missing file is not an
// error; the second return value reports whether a snapshot was found.
func (s *FSStore) LoadSchedule() (ScheduleSnapshot, bool, error) {
	var snap ScheduleSnapshot
	ok, err := s.readJSON(scheduleFile, &snap)
	if err != nil {
		return ScheduleSnapshot{}, false, err
	}
	return snap, ok, nil
}

func (s *FSStore) writeJSON(name string, payload any) error {
	if s == nil {
		return errors.New("snapshot store not configured")
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return err
	}

	target := filepath.Join(s.basePath, name)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FSStore) readJSON(name string, payload any) (bool, error) {
	if s == nil {
		return false, errors.New("snapshot store not configured")
	}
	f, err := os.Open(filepath.Join(s.basePath, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(payload); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}
