package ecoharmonogram

import "time"

const providerName = "ecoharmonogram"

const (
	defaultBaseURL     = "https://pluginecoapi.ecoharmonogram.pl/v1"
	defaultHTTPTimeout = 30 * time.Second

	// The provider's own web client sends this exact boundary token; the body
	// prefixes it with two extra dashes relative to the Content-Type header.
	formBoundary = "----WebKitFormBoundary7MA4YWxkTrZu0gW"

	// Some deployments reject form posts without this Origin header.
	originHeader = "https://pluginv1.dtsolution.pl"

	pathTowns           = "/townsForCommunity"
	pathSchedulePeriods = "/schedulePeriodsWithDataForCommunity"
	pathStreetsForTown  = "/streetsForTown"
	pathStreets         = "/streets"
	pathSchedules       = "/schedules"

	scheduleLanguage = "pl"
	defaultGroupID   = "1"
)
