package engine

import (
	"sort"

	"waste-schedule-service/internal/schedule"
)

// RemapSelection translates a category selection across a period transition.
// Raw category ids are not stable between periods, but names are: each old id
// becomes its name via the old descriptions, then each name becomes its new
// id via the new descriptions. Names absent from the new period are dropped.
// Output order follows the new descriptions' category order so the result is
// deterministic.
func RemapSelection(oldIDs []string, oldDescs, newDescs schedule.Descriptions) []string {
	if len(oldIDs) == 0 {
		return nil
	}

	oldIDToName := oldDescs.IDToName()
	selectedNames := make(map[string]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		if name, ok := oldIDToName[id]; ok {
			selectedNames[name] = struct{}{}
		}
	}

	// Iterate the new ids in a stable order.
	newIDs := make([]string, 0, len(selectedNames))
	for _, cat := range sortedByOrder(newDescs) {
		if _, ok := selectedNames[cat.Name]; ok {
			newIDs = append(newIDs, cat.ID)
		}
	}
	return newIDs
}

func sortedByOrder(descs schedule.Descriptions) []schedule.Category {
	out := make([]schedule.Category, 0, len(descs))
	for _, cat := range descs {
		out = append(out, cat)
	}
	// Order fields are provider-supplied strings like "1", "2", "999";
	// length-then-lexical comparison sorts them numerically, with the id as
	// tiebreaker for determinism.
	sort.Slice(out, func(i, j int) bool { return lessCategory(out[i], out[j]) })
	return out
}

func lessCategory(a, b schedule.Category) bool {
	if a.Order != b.Order {
		if len(a.Order) != len(b.Order) {
			return len(a.Order) < len(b.Order)
		}
		return a.Order < b.Order
	}
	if len(a.ID) != len(b.ID) {
		return len(a.ID) < len(b.ID)
	}
	return a.ID < b.ID
}
