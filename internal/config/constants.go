package config

import "time"

const (
	envPort            = "PORT"
	envRefreshInterval = "REFRESH_INTERVAL"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken      = "ADMIN_TOKEN"
	envSnapshotDir     = "SNAPSHOT_DIR"
	envSnapshotOn      = "SNAPSHOT_ENABLED"

	defaultPort = "4000"
	// The provider publishes schedule changes at most daily; once a day is
	// plenty and keeps us polite toward the upstream.
	defaultRefreshInterval = 24 * Duration(time.Hour)
	defaultMetricsPort     = "9090"
	defaultSnapshotDir     = "data/snapshots"
	defaultServiceName     = "waste-schedule-service"
)
