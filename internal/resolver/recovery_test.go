package resolver

import (
	"context"
	"errors"
	"testing"

	"waste-schedule-service/internal/providers/ecoharmonogram"
)

func staleKwiatowa(group string) StaleLocation {
	return StaleLocation{
		TownID:      "7",
		PeriodID:    "43",
		StreetName:  "Kwiatowa",
		Number:      "12",
		GroupName:   group,
		OldStreetID: "330",
	}
}

func TestReplayMatchesGroupNameCaseInsensitively(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{{Name: "Kwiatowa", ChoosedStreetIDs: "700"}},
		groups:  groupedResult("901", "902"),
	}

	id, err := replayStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa("ZABUDOWA WIELORODZINNA"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "902" {
		t.Fatalf("expected group match 902, got %s", id)
	}
}

func TestReplayFallsBackToFirstGroup(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{{Name: "Kwiatowa", ChoosedStreetIDs: "700"}},
		groups:  groupedResult("901", "902"),
	}

	id, err := replayStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa("zabudowa zagrodowa"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "901" {
		t.Fatalf("expected first group 901, got %s", id)
	}
}

func TestReplayFallsBackToFirstStreetWhenUngrouped(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{{Name: "Kwiatowa", ChoosedStreetIDs: "700"}},
		groups: ecoharmonogram.GroupsResult{
			Streets: []ecoharmonogram.Street{{ID: "331"}},
		},
	}

	id, err := replayStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa("jakakolwiek"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "331" {
		t.Fatalf("expected streets[0].id, got %s", id)
	}
}

func TestReplayFallsBackToChoosedIDsWhenEverythingEmpty(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{{Name: "Kwiatowa", ChoosedStreetIDs: "700"}},
	}

	id, err := replayStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa("x"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "700" {
		t.Fatalf("expected choosedStreetIds 700, got %s", id)
	}
}

func TestReplayUnknownStreet(t *testing.T) {
	client := &stubClient{streets: []ecoharmonogram.Street{{Name: "Polna"}}}

	if _, err := (replayStrategy{New(client, nil)}).Recover(context.Background(), staleKwiatowa("x")); !errors.Is(err, ErrStreetNotFound) {
		t.Fatalf("expected ErrStreetNotFound, got %v", err)
	}
}

func TestProbeAcceptsFirstCandidateWithDescriptions(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{
			{ID: "400", Name: "Kwiatowa", Numbers: "2-8"}, // building-scoped, never probed
			{ID: "401", Name: "Kwiatowa"},
			{ID: "402", Name: "kwiatowa"},
		},
		schedules: map[string]ecoharmonogram.SchedulePayload{
			"401": {},
			"402": {ScheduleDescription: []ecoharmonogram.DescriptionRow{{ID: "1", Name: "Papier"}}},
		},
	}

	id, err := probeStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa(""))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "402" {
		t.Fatalf("expected candidate 402, got %s", id)
	}
	for _, probed := range client.scheduleCalls {
		if probed == "400" {
			t.Fatal("building-scoped rows must never be probed")
		}
	}
}

func TestProbeSurvivesCandidateFetchErrors(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{
			{ID: "401", Name: "Kwiatowa"},
			{ID: "402", Name: "Kwiatowa"},
		},
		scheduleErrs: map[string]error{"401": errors.New("boom")},
		schedules: map[string]ecoharmonogram.SchedulePayload{
			"402": {ScheduleDescription: []ecoharmonogram.DescriptionRow{{ID: "1", Name: "Szkło"}}},
		},
	}

	id, err := probeStrategy{New(client, nil)}.Recover(context.Background(), staleKwiatowa(""))
	if err != nil || id != "402" {
		t.Fatalf("expected 402 after failed probe, got %s / %v", id, err)
	}
}

func TestProbeExhaustion(t *testing.T) {
	client := &stubClient{
		streets: []ecoharmonogram.Street{{ID: "401", Name: "Kwiatowa"}},
		schedules: map[string]ecoharmonogram.SchedulePayload{
			"401": {},
		},
	}

	if _, err := (probeStrategy{New(client, nil)}).Recover(context.Background(), staleKwiatowa("")); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}

	client.streets = nil
	if _, err := (probeStrategy{New(client, nil)}).Recover(context.Background(), staleKwiatowa("")); !errors.Is(err, ErrStreetNotFound) {
		t.Fatalf("expected ErrStreetNotFound, got %v", err)
	}
}

func TestStrategiesOrdering(t *testing.T) {
	r := New(&stubClient{}, nil)

	withGroup := r.Strategies(staleKwiatowa("zabudowa jednorodzinna"))
	if len(withGroup) != 2 || withGroup[0].Name() != "group-name-replay" || withGroup[1].Name() != "schedule-probe" {
		t.Fatalf("unexpected chain with group name: %v", names(withGroup))
	}

	withoutGroup := r.Strategies(staleKwiatowa(""))
	if len(withoutGroup) != 1 || withoutGroup[0].Name() != "schedule-probe" {
		t.Fatalf("unexpected chain without group name: %v", names(withoutGroup))
	}
}

func names(strategies []RecoveryStrategy) []string {
	out := make([]string, len(strategies))
	for i, s := range strategies {
		out[i] = s.Name()
	}
	return out
}
