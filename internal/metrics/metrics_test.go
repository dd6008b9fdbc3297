package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderCounts(t *testing.T) {
	rec := NewRecorder()

	rec.RecordRefresh(120*time.Millisecond, nil)
	rec.RecordRefresh(80*time.Millisecond, errors.New("boom"))
	rec.RecordCacheFallback()
	rec.RecordResolution()
	rec.RecordResolution()

	got := rec.Stats()
	if got.Refreshes != 2 || got.Failures != 1 {
		t.Fatalf("unexpected refresh counts: %+v", got)
	}
	if got.CacheFallbacks != 1 || got.Resolutions != 2 {
		t.Fatalf("unexpected fallback/resolution counts: %+v", got)
	}
	if got.LastDuration != 80*time.Millisecond {
		t.Fatalf("expected last duration recorded, got %v", got.LastDuration)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordRefresh(time.Second, nil)
	rec.RecordCacheFallback()
	rec.RecordResolution()
	if got := rec.Stats(); got != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}

func TestSetupDisabledReturnsBareRecorder(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if rec == nil {
		t.Fatal("expected a recorder")
	}
	if handler != nil {
		t.Fatal("expected no prometheus handler when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected no-op shutdown, got %v", err)
	}
}

func TestSetupEnabledWiresPrometheus(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	defer shutdown(context.Background())

	if handler == nil {
		t.Fatal("expected a prometheus handler")
	}
	// Recording through the otel path must not panic.
	rec.RecordRefresh(time.Millisecond, nil)
	rec.RecordCacheFallback()
	rec.RecordResolution()
}
