package ecoharmonogram

import "encoding/json"

// envelope is the outer shape of every provider response. A success=false or
// missing data payload means "no results", not an error.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Town is a settlement within a community.
type Town struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type townsData struct {
	Towns []Town `json:"towns"`
}

// SchedulePeriod is a provider-defined date range during which one schedule
// version is valid. Dates are YYYY-MM-DD strings.
type SchedulePeriod struct {
	ID         string `json:"id"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	ChangeDate string `json:"changeDate"`
}

type periodsData struct {
	SchedulePeriods []SchedulePeriod `json:"schedulePeriods"`
}

// Street is one street row for a town/period. A non-empty Numbers field marks
// the row as scoped to specific buildings (e.g. an institution) rather than
// the general residential population.
type Street struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ChoosedStreetIDs string `json:"choosedStreetIds"`
	Numbers          string `json:"numbers"`
	ScheduleGroup    string `json:"schedulegroup"`
}

// BuildingGroup is one named building-type group (e.g. single-family,
// multi-family) carrying its own period-scoped street identifier.
type BuildingGroup struct {
	Name             string `json:"name"`
	ChoosedStreetIDs string `json:"choosedStreetIds"`
}

// GroupList is the nested groups object of the building-group endpoint.
type GroupList struct {
	Items   []BuildingGroup `json:"items"`
	GroupID string          `json:"groupId"`
}

// GroupsResult is the polymorphic payload of the building-group endpoint:
// either Groups is present with two or more items, or the street has a single
// undifferentiated building type and only Streets is populated.
type GroupsResult struct {
	Streets []Street   `json:"streets"`
	Groups  *GroupList `json:"groups"`
}

// GroupItems returns the group list, or nil when the street has no split.
func (g GroupsResult) GroupItems() []BuildingGroup {
	if g.Groups == nil {
		return nil
	}
	return g.Groups.Items
}

// ScheduleRow is one raw schedule record: a month's collection days for one
// category, with days as a semicolon-delimited list.
type ScheduleRow struct {
	ScheduleDescriptionID string `json:"scheduleDescriptionId"`
	Month                 string `json:"month"`
	Year                  string `json:"year"`
	Days                  string `json:"days"`
}

// DescriptionRow carries the display metadata for one waste category.
type DescriptionRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	TypeID      string `json:"typeId"`
	Order       string `json:"order"`
}

// SchedulePayload is the raw schedule response for a location/period.
type SchedulePayload struct {
	Schedules           []ScheduleRow    `json:"schedules"`
	ScheduleDescription []DescriptionRow `json:"scheduleDescription"`
}

// Empty reports whether the payload has neither rows nor descriptions.
func (p SchedulePayload) Empty() bool {
	return len(p.Schedules) == 0 && len(p.ScheduleDescription) == 0
}
