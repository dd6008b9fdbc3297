package config

// SnapshotConfig controls on-disk persistence of the location baseline and
// the last good schedule.
type SnapshotConfig struct {
	Enabled bool
	Dir     string
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Enabled: boolEnvOrDefault(envSnapshotOn, true),
		Dir:     envOrDefault(envSnapshotDir, defaultSnapshotDir),
	}
}
