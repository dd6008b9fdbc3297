package ecoharmonogram

import (
	"net/http"
	"strings"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// formField is one multipart form field. Fields are kept as an ordered slice
// so the body matches the field order of the provider's own client.
type formField struct {
	Name  string
	Value string
}

// encodeForm builds the multipart body the provider expects: each field line
// uses the wire boundary ("--" + header boundary), with a fixed boundary
// token rather than a generated one.
func encodeForm(fields []formField) (body string, contentType string) {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString("------")
		b.WriteString(formBoundary)
		b.WriteString("\r\nContent-Disposition: form-data; name=\"")
		b.WriteString(f.Name)
		b.WriteString("\"\r\n\r\n")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("------")
	b.WriteString(formBoundary)
	b.WriteString("--\r\n")

	return b.String(), "multipart/form-data; boundary=----" + formBoundary
}
