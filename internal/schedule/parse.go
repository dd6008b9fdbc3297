package schedule

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/providers/ecoharmonogram"
	"waste-schedule-service/internal/timeutil"
)

// Parse converts a raw schedule payload into a category→dates map and a
// category→metadata map. It is pure: no network calls, deterministic output.
//
// Rows referencing unknown description ids are dropped silently (the provider
// is known to reference retired categories). A single malformed day token is
// logged and skipped without affecting the rest of its row. When selectedIDs
// is non-empty, both maps are filtered to categories whose id is in the set.
func Parse(payload ecoharmonogram.SchedulePayload, selectedIDs []string, logger *slog.Logger) (Schedule, Descriptions) {
	byID := make(map[string]Category, len(payload.ScheduleDescription))
	for _, row := range payload.ScheduleDescription {
		name := strings.TrimSpace(row.Name)
		if row.ID == "" || name == "" {
			continue
		}
		if _, exists := byID[row.ID]; exists {
			continue
		}
		byID[row.ID] = Category{
			ID:          row.ID,
			Name:        name,
			Color:       row.Color,
			Description: row.Description,
			TypeID:      row.TypeID,
			Order:       row.Order,
		}
	}

	parsed := make(Schedule)
	for _, row := range payload.Schedules {
		desc, ok := byID[row.ScheduleDescriptionID]
		if !ok {
			continue
		}
		parsed[desc.Name] = append(parsed[desc.Name], parseRowDates(row, logger)...)
	}

	for name, dates := range parsed {
		parsed[name] = sortedUnique(dates)
	}

	// First description row wins for each name; two rows can share a name
	// across provider inconsistencies and their dates were already merged.
	descriptions := make(Descriptions, len(parsed))
	for _, row := range payload.ScheduleDescription {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if _, scheduled := parsed[name]; !scheduled {
			continue
		}
		if _, taken := descriptions[name]; taken {
			continue
		}
		if cat, ok := byID[row.ID]; ok {
			descriptions[name] = cat
		}
	}

	if len(selectedIDs) > 0 {
		parsed, descriptions = FilterSelected(parsed, descriptions, selectedIDs)
	}

	return parsed, descriptions
}

func parseRowDates(row ecoharmonogram.ScheduleRow, logger *slog.Logger) []time.Time {
	if row.Month == "" || row.Year == "" || row.Days == "" {
		return nil
	}

	month, err := strconv.Atoi(strings.TrimSpace(row.Month))
	if err != nil || month < 1 || month > 12 {
		logging.Warn(logger, "skipping schedule row with bad month",
			slog.String("month", row.Month), slog.String("year", row.Year))
		return nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(row.Year))
	if err != nil {
		logging.Warn(logger, "skipping schedule row with bad year",
			slog.String("month", row.Month), slog.String("year", row.Year))
		return nil
	}

	var dates []time.Time
	for _, token := range strings.Split(row.Days, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		day, err := strconv.Atoi(token)
		if err != nil || day < 1 || day > daysIn(year, month) {
			logging.Warn(logger, "skipping unparseable collection day",
				slog.String("day", token),
				slog.String("month", row.Month),
				slog.String("year", row.Year),
			)
			continue
		}
		dates = append(dates, timeutil.MakeDate(year, month, day))
	}
	return dates
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sortedUnique(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return dates
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := dates[:1]
	for _, d := range dates[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// FilterSelected restricts both maps to categories whose id is in
// selectedIDs. Unknown ids select nothing.
func FilterSelected(parsed Schedule, descriptions Descriptions, selectedIDs []string) (Schedule, Descriptions) {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	outDesc := make(Descriptions, len(descriptions))
	for name, cat := range descriptions {
		if _, ok := selected[cat.ID]; ok {
			outDesc[name] = cat
		}
	}
	outSched := make(Schedule, len(outDesc))
	for name, dates := range parsed {
		if _, ok := outDesc[name]; ok {
			outSched[name] = dates
		}
	}
	return outSched, outDesc
}
