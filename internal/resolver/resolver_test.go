package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"waste-schedule-service/internal/providers/ecoharmonogram"
)

type stubClient struct {
	towns   []ecoharmonogram.Town
	periods []ecoharmonogram.SchedulePeriod
	streets []ecoharmonogram.Street
	groups  ecoharmonogram.GroupsResult

	// schedules maps streetId to the payload returned for it.
	schedules    map[string]ecoharmonogram.SchedulePayload
	scheduleErrs map[string]error

	err           error
	scheduleCalls []string
}

func (s *stubClient) Towns(ctx context.Context, communityID string) ([]ecoharmonogram.Town, error) {
	return s.towns, s.err
}

func (s *stubClient) SchedulePeriods(ctx context.Context, communityID string) ([]ecoharmonogram.SchedulePeriod, error) {
	return s.periods, s.err
}

func (s *stubClient) StreetsForTown(ctx context.Context, townID, periodID string) ([]ecoharmonogram.Street, error) {
	return s.streets, s.err
}

func (s *stubClient) Streets(ctx context.Context, q ecoharmonogram.StreetsQuery) (ecoharmonogram.GroupsResult, error) {
	return s.groups, s.err
}

func (s *stubClient) Schedules(ctx context.Context, q ecoharmonogram.ScheduleQuery) (ecoharmonogram.SchedulePayload, error) {
	s.scheduleCalls = append(s.scheduleCalls, q.StreetID)
	if err, ok := s.scheduleErrs[q.StreetID]; ok {
		return ecoharmonogram.SchedulePayload{}, err
	}
	return s.schedules[q.StreetID], nil
}

func newResolverAt(client Client, today string) *Resolver {
	r := New(client, nil)
	r.now = func() time.Time {
		t, _ := time.Parse("2006-01-02", today)
		return t
	}
	return r
}

func TestPeriodsFiltersToCurrentYearByPrefix(t *testing.T) {
	client := &stubClient{periods: []ecoharmonogram.SchedulePeriod{
		{ID: "A", StartDate: "2023-07-01", EndDate: "2023-12-31"},
		{ID: "B", StartDate: "2024-01-01", EndDate: "2024-06-30"},
		{ID: "C", StartDate: "2024-07-01", EndDate: "2024-12-31"},
	}}
	r := newResolverAt(client, "2024-08-15")

	periods, err := r.Periods(context.Background(), "108")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(periods) != 2 || periods[0].ID != "B" || periods[1].ID != "C" {
		t.Fatalf("expected periods B and C, got %+v", periods)
	}
}

func TestCurrentPeriodSelection(t *testing.T) {
	periods := []ecoharmonogram.SchedulePeriod{
		{ID: "A", StartDate: "2024-01-01", EndDate: "2024-06-30"},
		{ID: "B", StartDate: "2024-07-01", EndDate: "2024-12-31"},
	}

	cases := []struct {
		name  string
		today string
		want  string
	}{
		{"containing period wins", "2024-08-15", "B"},
		{"start date is inclusive", "2024-07-01", "B"},
		{"most recent past when none contains", "2024-12-31", "B"},
		{"earliest future when all are future", "2024-01-01", "A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Pin "today" inside 2024 so the year prefix filter keeps both periods.
			r := newResolverAt(&stubClient{periods: periods}, tc.today)
			got, err := r.CurrentPeriod(context.Background(), "108")
			if err != nil {
				t.Fatalf("expected a period, got %v", err)
			}
			if got.ID != tc.want {
				t.Fatalf("expected period %s, got %s", tc.want, got.ID)
			}
		})
	}
}

func TestCurrentPeriodPrefersPastOverFuture(t *testing.T) {
	r := newResolverAt(&stubClient{periods: []ecoharmonogram.SchedulePeriod{
		{ID: "past", StartDate: "2024-01-01", EndDate: "2024-03-31"},
		{ID: "future", StartDate: "2024-10-01", EndDate: "2024-12-31"},
	}}, "2024-06-15")

	got, err := r.CurrentPeriod(context.Background(), "108")
	if err != nil {
		t.Fatalf("expected a period, got %v", err)
	}
	if got.ID != "past" {
		t.Fatalf("expected most recent past period, got %s", got.ID)
	}
}

func TestCurrentPeriodNoPeriodsIsFatal(t *testing.T) {
	r := newResolverAt(&stubClient{}, "2024-08-15")
	if _, err := r.CurrentPeriod(context.Background(), "108"); !errors.Is(err, ErrNoPeriods) {
		t.Fatalf("expected ErrNoPeriods, got %v", err)
	}
}

func TestBuildingGroupsShapes(t *testing.T) {
	t.Run("grouped street", func(t *testing.T) {
		client := &stubClient{groups: groupedResult("901", "902")}
		g, err := New(client, nil).BuildingGroups(context.Background(), ecoharmonogram.StreetsQuery{})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if !g.Grouped() || len(g.Groups) != 2 {
			t.Fatalf("expected grouped result, got %+v", g)
		}
	})

	t.Run("single building type uses first street id", func(t *testing.T) {
		client := &stubClient{groups: ecoharmonogram.GroupsResult{
			Streets: []ecoharmonogram.Street{{ID: "330", ScheduleGroup: "zabudowa mieszana"}},
		}}
		g, err := New(client, nil).BuildingGroups(context.Background(), ecoharmonogram.StreetsQuery{ChoosedStreetIDs: "999"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if g.Grouped() || g.StreetID != "330" || g.GroupName != "zabudowa mieszana" {
			t.Fatalf("unexpected grouping: %+v", g)
		}
	})

	t.Run("empty streets falls back to choosed ids", func(t *testing.T) {
		client := &stubClient{}
		g, err := New(client, nil).BuildingGroups(context.Background(), ecoharmonogram.StreetsQuery{ChoosedStreetIDs: "999"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if g.StreetID != "999" || g.GroupName != "Default" {
			t.Fatalf("unexpected grouping: %+v", g)
		}
	})
}

func TestFindStreetPrefersGeneralRows(t *testing.T) {
	streets := []ecoharmonogram.Street{
		{ID: "1", Name: "Kwiatowa", Numbers: "15A"}, // institution-scoped
		{ID: "2", Name: "kwiatowa"},                 // general, folded casing
		{ID: "3", Name: "Kwiatowa"},                 // general, exact
	}

	got, ok := findStreet(streets, "Kwiatowa")
	if !ok || got.ID != "3" {
		t.Fatalf("expected exact general row, got %+v (ok=%v)", got, ok)
	}

	// Without an exact-cased general row, the folded general row wins over
	// the building-scoped one.
	got, ok = findStreet(streets[:2], "Kwiatowa")
	if !ok || got.ID != "2" {
		t.Fatalf("expected folded general row, got %+v (ok=%v)", got, ok)
	}

	if _, ok := findStreet(streets, "Polna"); ok {
		t.Fatal("expected no match for unknown street")
	}
}

func groupedResult(ids ...string) ecoharmonogram.GroupsResult {
	return ecoharmonogram.GroupsResult{Groups: &ecoharmonogram.GroupList{
		Items: []ecoharmonogram.BuildingGroup{
			{Name: "zabudowa jednorodzinna", ChoosedStreetIDs: ids[0]},
			{Name: "zabudowa wielorodzinna", ChoosedStreetIDs: ids[1]},
		},
	}}
}
