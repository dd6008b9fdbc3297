package config

const (
	envCommunityID    = "COMMUNITY_ID"
	envTownID         = "TOWN_ID"
	envStreetName     = "STREET_NAME"
	envBuildingNumber = "BUILDING_NUMBER"
	envGroupName      = "BUILDING_GROUP"
	envSelectedTypes  = "SELECTED_CATEGORIES"

	defaultCommunityID = "108"
)

// LocationConfig identifies the address whose schedule this instance tracks.
// TownID, StreetName and BuildingNumber come from setup; the concrete street
// identifier is derived at runtime and persisted in the baseline, never
// configured directly.
type LocationConfig struct {
	CommunityID    string
	TownID         string
	StreetName     string
	BuildingNumber string
	// GroupName is the building-type group recorded during setup. It is the
	// only key stable across schedule periods.
	GroupName string
	// SelectedCategoryIDs scopes aggregate views to a subset of categories.
	// Empty means all.
	SelectedCategoryIDs []string
}

func loadLocation() LocationConfig {
	return LocationConfig{
		CommunityID:         envOrDefault(envCommunityID, defaultCommunityID),
		TownID:              envOrDefault(envTownID, ""),
		StreetName:          envOrDefault(envStreetName, ""),
		BuildingNumber:      envOrDefault(envBuildingNumber, ""),
		GroupName:           envOrDefault(envGroupName, ""),
		SelectedCategoryIDs: listEnv(envSelectedTypes),
	}
}
