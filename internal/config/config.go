package config

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	RefreshInterval Duration
	AdminToken      string
	Ecoharmonogram  EcoharmonogramConfig
	Location        LocationConfig
	Metrics         MetricsConfig
	Snapshots       SnapshotConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		RefreshInterval: durationEnvOrDefault(envRefreshInterval, defaultRefreshInterval),
		AdminToken:      envOrDefault(envAdminToken, ""),
		Ecoharmonogram:  loadEcoharmonogram(),
		Location:        loadLocation(),
		Metrics:         loadMetrics(),
		Snapshots:       loadSnapshots(),
	}
}
