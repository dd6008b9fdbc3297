package engine

import (
	"reflect"
	"testing"

	"waste-schedule-service/internal/schedule"
)

func descsFrom(cats ...schedule.Category) schedule.Descriptions {
	descs := make(schedule.Descriptions, len(cats))
	for _, cat := range cats {
		descs[cat.Name] = cat
	}
	return descs
}

func TestRemapSelectionByName(t *testing.T) {
	oldDescs := descsFrom(
		schedule.Category{ID: "1", Name: "Papier", Order: "1"},
		schedule.Category{ID: "2", Name: "Szkło", Order: "2"},
		schedule.Category{ID: "3", Name: "Zmieszane", Order: "3"},
	)
	newDescs := descsFrom(
		schedule.Category{ID: "21", Name: "Zmieszane", Order: "1"},
		schedule.Category{ID: "22", Name: "Papier", Order: "2"},
		schedule.Category{ID: "23", Name: "Szkło", Order: "3"},
	)

	got := RemapSelection([]string{"1", "3"}, oldDescs, newDescs)
	if !reflect.DeepEqual(got, []string{"21", "22"}) {
		t.Fatalf("expected remap to new ids in new order, got %v", got)
	}
}

func TestRemapSelectionDropsMissingNames(t *testing.T) {
	oldDescs := descsFrom(
		schedule.Category{ID: "1", Name: "Papier", Order: "1"},
		schedule.Category{ID: "2", Name: "Wielkogabaryty", Order: "2"},
	)
	newDescs := descsFrom(
		schedule.Category{ID: "7", Name: "Papier", Order: "1"},
	)

	got := RemapSelection([]string{"1", "2"}, oldDescs, newDescs)
	if !reflect.DeepEqual(got, []string{"7"}) {
		t.Fatalf("expected absent category dropped, got %v", got)
	}
}

func TestRemapSelectionUnknownOldID(t *testing.T) {
	oldDescs := descsFrom(schedule.Category{ID: "1", Name: "Papier"})
	newDescs := descsFrom(schedule.Category{ID: "7", Name: "Papier"})

	if got := RemapSelection([]string{"99"}, oldDescs, newDescs); len(got) != 0 {
		t.Fatalf("expected unknown id to map to nothing, got %v", got)
	}
}

func TestRemapSelectionEmptyInput(t *testing.T) {
	if got := RemapSelection(nil, nil, nil); got != nil {
		t.Fatalf("expected nil for empty selection, got %v", got)
	}
}

func TestSortedByOrderNumericStrings(t *testing.T) {
	descs := descsFrom(
		schedule.Category{ID: "a", Name: "A", Order: "10"},
		schedule.Category{ID: "b", Name: "B", Order: "2"},
		schedule.Category{ID: "c", Name: "C", Order: "999"},
	)
	sorted := sortedByOrder(descs)
	if sorted[0].Order != "2" || sorted[1].Order != "10" || sorted[2].Order != "999" {
		t.Fatalf("unexpected order: %+v", sorted)
	}
}
