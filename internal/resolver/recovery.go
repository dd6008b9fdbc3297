package resolver

import (
	"context"
	"log/slog"
	"strings"

	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/providers/ecoharmonogram"
)

// StaleLocation describes a location whose resolved street identifier stopped
// producing data, typically after a period transition.
type StaleLocation struct {
	TownID      string
	PeriodID    string
	StreetName  string
	Number      string
	GroupName   string
	OldStreetID string
}

// RecoveryStrategy re-derives a street identifier for a stale location. The
// two implementations are interchangeable; which one runs first depends on
// what prior state is available.
type RecoveryStrategy interface {
	Name() string
	Recover(ctx context.Context, loc StaleLocation) (string, error)
}

// Strategies returns the recovery chain for a location: group-name replay
// first when a group name was recorded during setup, with probing as the
// fallback in either case.
func (r *Resolver) Strategies(loc StaleLocation) []RecoveryStrategy {
	if loc.GroupName != "" {
		return []RecoveryStrategy{replayStrategy{r}, probeStrategy{r}}
	}
	return []RecoveryStrategy{probeStrategy{r}}
}

// ResolveLocation repeats the steps a fresh setup performs: find the street
// by name, fetch building groups, and pick the group whose name matches the
// one recorded during setup (first group when no name matches, first street
// row when there are no groups). It returns the resolved street identifier
// together with the street row's choosedStreetIds token.
func (r *Resolver) ResolveLocation(ctx context.Context, loc StaleLocation) (streetID, choosedIDs string, err error) {
	streets, err := r.client.StreetsForTown(ctx, loc.TownID, loc.PeriodID)
	if err != nil {
		return "", "", err
	}

	street, ok := findStreet(streets, loc.StreetName)
	if !ok {
		return "", "", ErrStreetNotFound
	}

	result, err := r.client.Streets(ctx, ecoharmonogram.StreetsQuery{
		ChoosedStreetIDs: street.ChoosedStreetIDs,
		Number:           loc.Number,
		TownID:           loc.TownID,
		StreetName:       loc.StreetName,
		PeriodID:         loc.PeriodID,
	})
	if err != nil {
		return "", "", err
	}

	if groups := result.GroupItems(); len(groups) > 0 {
		for _, g := range groups {
			if strings.EqualFold(g.Name, loc.GroupName) {
				return g.ChoosedStreetIDs, street.ChoosedStreetIDs, nil
			}
		}
		logging.Warn(r.logger, "recorded building group missing in period, using first group",
			slog.String("group", loc.GroupName),
			slog.String(logging.FieldPeriodID, loc.PeriodID),
		)
		return groups[0].ChoosedStreetIDs, street.ChoosedStreetIDs, nil
	}

	if len(result.Streets) > 0 {
		return result.Streets[0].ID, street.ChoosedStreetIDs, nil
	}
	return street.ChoosedStreetIDs, street.ChoosedStreetIDs, nil
}

// replayStrategy recovers a stale identifier by replaying the setup
// resolution and matching the recorded group name.
type replayStrategy struct{ r *Resolver }

func (s replayStrategy) Name() string { return "group-name-replay" }

func (s replayStrategy) Recover(ctx context.Context, loc StaleLocation) (string, error) {
	id, _, err := s.r.ResolveLocation(ctx, loc)
	return id, err
}

// probeStrategy trades extra network calls for correctness when group-name
// matching is unavailable or unreliable: every general street row sharing the
// target name is trial-fetched, and the first one whose schedule response
// carries at least one category description wins. Building-scoped rows are
// never probed; they belong to other premises.
type probeStrategy struct{ r *Resolver }

func (s probeStrategy) Name() string { return "schedule-probe" }

func (s probeStrategy) Recover(ctx context.Context, loc StaleLocation) (string, error) {
	streets, err := s.r.client.StreetsForTown(ctx, loc.TownID, loc.PeriodID)
	if err != nil {
		return "", err
	}

	var general []ecoharmonogram.Street
	found := false
	for _, street := range streets {
		if !strings.EqualFold(street.Name, loc.StreetName) {
			continue
		}
		found = true
		if street.Numbers == "" {
			general = append(general, street)
		}
	}
	if !found {
		return "", ErrStreetNotFound
	}

	for _, candidate := range general {
		payload, err := s.r.client.Schedules(ctx, ecoharmonogram.ScheduleQuery{
			Number:     loc.Number,
			StreetID:   candidate.ID,
			TownID:     loc.TownID,
			StreetName: loc.StreetName,
			PeriodID:   loc.PeriodID,
		})
		if err != nil {
			logging.Warn(s.r.logger, "probe fetch failed, trying next candidate",
				slog.String(logging.FieldStreetID, candidate.ID), slog.Any("err", err))
			continue
		}
		if len(payload.ScheduleDescription) > 0 {
			logging.Info(s.r.logger, "probe accepted street candidate",
				slog.String(logging.FieldStreetID, candidate.ID),
				slog.String(logging.FieldPeriodID, loc.PeriodID),
			)
			return candidate.ID, nil
		}
	}
	return "", ErrNoCandidates
}
