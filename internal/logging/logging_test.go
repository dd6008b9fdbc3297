package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFromContextReturnsFallbackWhenEmpty(t *testing.T) {
	fallback := slog.Default()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger")
	}
	if got := FromContext(nil, fallback); got != fallback { //nolint:staticcheck
		t.Fatal("expected fallback logger for nil context")
	}
}

func TestWithLoggerRoundTrips(t *testing.T) {
	stored := slog.Default().With("k", "v")
	ctx := WithLogger(context.Background(), stored)
	if got := FromContext(ctx, nil); got != stored {
		t.Fatal("expected stored logger")
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	// Must not panic.
	Debug(nil, "msg")
	Info(nil, "msg")
	Warn(nil, "msg")
	Error(nil, "msg", nil)
}
