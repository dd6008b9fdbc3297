package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterRoutes(t *testing.T) {
	router := NewRouter(newTestHandler(handlerConfig{}))

	paths := []string{
		"/health",
		"/schedule",
		"/schedule/today",
		"/schedule/tomorrow",
		"/schedule/next",
		"/schedule/upcoming",
		"/schedule/export.csv",
		"/schedule/export.ics",
		"/categories",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, path, nil))
		if rec.Code == nethttp.StatusNotFound {
			t.Errorf("route %s not registered", path)
		}
	}
}

func TestRouterUnknownPath(t *testing.T) {
	router := NewRouter(newTestHandler(handlerConfig{}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/nope", nil))
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
