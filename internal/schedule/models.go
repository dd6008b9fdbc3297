package schedule

import (
	"time"

	"waste-schedule-service/internal/timeutil"
)

// Period is a provider-defined date range during which one schedule version
// is valid. Bounds are YYYY-MM-DD strings as delivered by the provider.
type Period struct {
	ID         string `json:"id"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	ChangeDate string `json:"changeDate"`
}

// Bounds parses the period's start and end dates.
func (p Period) Bounds() (start, end time.Time, err error) {
	start, err = timeutil.ParseDate(p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = timeutil.ParseDate(p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Contains reports whether the given day falls within [StartDate, EndDate].
// Unparseable bounds never contain anything.
func (p Period) Contains(day time.Time) bool {
	start, end, err := p.Bounds()
	if err != nil {
		return false
	}
	d := timeutil.DateOnly(day)
	return !d.Before(start) && !d.After(end)
}

// Category carries the display metadata for one waste type. Name is the join
// key between descriptions and schedule rows, and the only key stable across
// periods.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	TypeID      string `json:"typeId"`
	Order       string `json:"order"`
}

// Schedule maps a category name to its ascending, deduplicated collection
// dates (naive calendar dates, midnight UTC).
type Schedule map[string][]time.Time

// Empty reports whether no category has any dates.
func (s Schedule) Empty() bool {
	for _, dates := range s {
		if len(dates) > 0 {
			return false
		}
	}
	return true
}

// TotalDates counts collection dates across all categories.
func (s Schedule) TotalDates() int {
	total := 0
	for _, dates := range s {
		total += len(dates)
	}
	return total
}

// Descriptions maps a category name to its metadata.
type Descriptions map[string]Category

// IDToName inverts the map for selection remapping.
func (d Descriptions) IDToName() map[string]string {
	out := make(map[string]string, len(d))
	for name, cat := range d {
		out[cat.ID] = name
	}
	return out
}

// Location is the tuple of provider identifiers selecting one address
// context. StreetID is derived at runtime, not user-supplied, and may change
// silently when the provider reorganizes data for a new period.
type Location struct {
	TownID           string `json:"townId"`
	StreetName       string `json:"streetName"`
	ChoosedStreetIDs string `json:"choosedStreetIds"`
	BuildingNumber   string `json:"buildingNumber"`
	GroupName        string `json:"groupName"`
	StreetID         string `json:"streetId"`
}

// Baseline is the last-persisted (period, location, selection) state used to
// detect change between refresh cycles. Refresh reads a baseline and returns
// the replacement; nothing mutates it in place.
type Baseline struct {
	Version             int      `json:"version"`
	Period              Period   `json:"period"`
	Location            Location `json:"location"`
	SelectedCategoryIDs []string `json:"selectedCategoryIds"`
}

// Configured reports whether the baseline has been through at least one
// successful resolution.
func (b Baseline) Configured() bool {
	return b.Location.StreetID != "" && b.Period.ID != ""
}
