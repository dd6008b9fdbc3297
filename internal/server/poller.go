package server

import (
	"context"

	"waste-schedule-service/internal/engine"
	"waste-schedule-service/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
	TriggerRefresh(opts engine.Options) bool
}
