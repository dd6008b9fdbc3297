package http

import (
	"bytes"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"waste-schedule-service/internal/logging"
)

func TestLoggingMiddlewareGeneratesRequestID(t *testing.T) {
	var seen string
	next := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(nethttp.StatusNoContent)
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	LoggingMiddleware(logger, next).ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/schedule", nil))

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("header/context mismatch: %q vs %q", got, seen)
	}
	if !strings.Contains(buf.String(), `"request_id"`) || !strings.Contains(buf.String(), `"status_code":204`) {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestLoggingMiddlewarePreservesIncomingID(t *testing.T) {
	next := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if lg := logging.FromContext(r.Context(), nil); lg == nil {
			t.Error("expected logger in context")
		}
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/schedule", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	LoggingMiddleware(nil, next).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("expected incoming id to be kept, got %q", got)
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
