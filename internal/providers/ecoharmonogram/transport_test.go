package ecoharmonogram

import (
	"strings"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	if got := normalizeBaseURL(""); got != defaultBaseURL {
		t.Fatalf("expected default base URL, got %s", got)
	}
	if got := normalizeBaseURL("http://example.com/v1/"); got != "http://example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %s", got)
	}
}

func TestEncodeFormPreservesFieldOrder(t *testing.T) {
	body, contentType := encodeForm([]formField{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
	})

	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Fatalf("unexpected content type %s", contentType)
	}
	bIdx := strings.Index(body, "name=\"b\"")
	aIdx := strings.Index(body, "name=\"a\"")
	if bIdx < 0 || aIdx < 0 || bIdx > aIdx {
		t.Fatalf("expected caller-provided field order, got:\n%s", body)
	}
	if !strings.HasSuffix(body, "------"+formBoundary+"--\r\n") {
		t.Fatalf("expected closing boundary, got:\n%s", body)
	}
}

func TestResolveHTTPClientDefaultsTimeout(t *testing.T) {
	doer := resolveHTTPClient(nil)
	if doer == nil {
		t.Fatal("expected a default client")
	}
}
