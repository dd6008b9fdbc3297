package config

const (
	envEcoBaseURL = "ECOHARMONOGRAM_BASE_URL"
	envEcoVerbose = "ECOHARMONOGRAM_VERBOSE"

	defaultEcoBaseURL = "https://pluginecoapi.ecoharmonogram.pl/v1"
)

// EcoharmonogramConfig controls how we talk to the ecoharmonogram API.
type EcoharmonogramConfig struct {
	BaseURL string
	// Verbose dumps full request/response payloads at debug level. It must
	// never change behavior, only observability.
	Verbose bool
}

func loadEcoharmonogram() EcoharmonogramConfig {
	return EcoharmonogramConfig{
		BaseURL: envOrDefault(envEcoBaseURL, defaultEcoBaseURL),
		Verbose: boolEnvOrDefault(envEcoVerbose, false),
	}
}
