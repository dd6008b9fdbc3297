package metrics

import (
	"sync"
	"time"
)

// Recorder captures lightweight, in-memory metrics about refresh cycles. It
// is nil-safe so callers never need to guard their recording calls.
type Recorder struct {
	mu   sync.Mutex
	s    Snapshot
	otel *otelInstruments
}

// Snapshot is a copy of the current counters.
type Snapshot struct {
	Refreshes      int
	Failures       int
	CacheFallbacks int
	Resolutions    int
	LastDuration   time.Duration
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordRefresh counts one refresh cycle and its outcome.
func (r *Recorder) RecordRefresh(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.s.Refreshes++
	r.s.LastDuration = duration
	if err != nil {
		r.s.Failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRefresh(duration, err)
	}
}

// RecordCacheFallback counts a cycle that served last-known-good data.
func (r *Recorder) RecordCacheFallback() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.s.CacheFallbacks++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheFallback()
	}
}

// RecordResolution counts a street identifier (re-)resolution.
func (r *Recorder) RecordResolution() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.s.Resolutions++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordResolution()
	}
}

// Stats returns a copy of the current counters.
func (r *Recorder) Stats() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s
}
