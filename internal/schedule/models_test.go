package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodContains(t *testing.T) {
	p := Period{ID: "42", StartDate: "2024-07-01", EndDate: "2024-12-31"}

	if !p.Contains(date(2024, time.July, 1)) || !p.Contains(date(2024, time.December, 31)) {
		t.Fatal("bounds are inclusive")
	}
	if p.Contains(date(2024, time.June, 30)) || p.Contains(date(2025, time.January, 1)) {
		t.Fatal("dates outside the range must not be contained")
	}
	// Time-of-day must not matter.
	if !p.Contains(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("expected end-of-day to be contained")
	}
}

func TestPeriodContainsRejectsBadBounds(t *testing.T) {
	p := Period{ID: "x", StartDate: "soon", EndDate: "later"}
	if p.Contains(date(2024, time.July, 1)) {
		t.Fatal("unparseable bounds never contain anything")
	}
}

func TestScheduleTotals(t *testing.T) {
	s := Schedule{
		"Papier": {date(2024, 1, 3), date(2024, 1, 17)},
		"Szkło":  {date(2024, 1, 9)},
	}
	if s.Empty() {
		t.Fatal("expected non-empty schedule")
	}
	if got := s.TotalDates(); got != 3 {
		t.Fatalf("expected 3 dates, got %d", got)
	}
	if !(Schedule{"Papier": nil}).Empty() {
		t.Fatal("schedule with no dates counts as empty")
	}
}

func TestDescriptionsIDToName(t *testing.T) {
	d := Descriptions{
		"Papier": {ID: "1", Name: "Papier"},
		"Szkło":  {ID: "2", Name: "Szkło"},
	}
	inverted := d.IDToName()
	if inverted["1"] != "Papier" || inverted["2"] != "Szkło" {
		t.Fatalf("unexpected inversion: %v", inverted)
	}
}

func TestBaselineConfigured(t *testing.T) {
	var b Baseline
	if b.Configured() {
		t.Fatal("zero baseline is unconfigured")
	}
	b.Period.ID = "42"
	b.Location.StreetID = "901"
	if !b.Configured() {
		t.Fatal("expected configured baseline")
	}
}
