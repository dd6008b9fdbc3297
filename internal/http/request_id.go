package http

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

func generateRequestID() string {
	return uuid.NewString()
}

// RequestIDFromContext returns the request ID set by LoggingMiddleware, or
// an empty string.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
