package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"waste-schedule-service/internal/providers/ecoharmonogram"
)

var (
	// ErrNoPeriods means the provider lists no schedule periods at all. No
	// schedule can be produced; callers treat this as fatal.
	ErrNoPeriods = errors.New("provider lists no schedule periods")

	// ErrStreetNotFound means the configured street name does not exist in
	// the target period's street list.
	ErrStreetNotFound = errors.New("street not found in period")

	// ErrNoCandidates means identifier recovery ran out of candidates.
	ErrNoCandidates = errors.New("no usable street candidates")
)

// Client is the subset of the ecoharmonogram client the resolver needs.
type Client interface {
	Towns(ctx context.Context, communityID string) ([]ecoharmonogram.Town, error)
	SchedulePeriods(ctx context.Context, communityID string) ([]ecoharmonogram.SchedulePeriod, error)
	StreetsForTown(ctx context.Context, townID, periodID string) ([]ecoharmonogram.Street, error)
	Streets(ctx context.Context, q ecoharmonogram.StreetsQuery) (ecoharmonogram.GroupsResult, error)
	Schedules(ctx context.Context, q ecoharmonogram.ScheduleQuery) (ecoharmonogram.SchedulePayload, error)
}

// Resolver maps an address to the provider's internal location identifiers
// and re-derives them when the provider changes them between periods.
type Resolver struct {
	client Client
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Resolver.
func New(client Client, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Towns lists the towns available for a community.
func (r *Resolver) Towns(ctx context.Context, communityID string) ([]ecoharmonogram.Town, error) {
	return r.client.Towns(ctx, communityID)
}

// Streets lists the street rows for a town within a period.
func (r *Resolver) Streets(ctx context.Context, townID, periodID string) ([]ecoharmonogram.Street, error) {
	return r.client.StreetsForTown(ctx, townID, periodID)
}

// Grouping is the resolved shape of the building-group response: either the
// street splits into named building-type groups, or it has a single
// undifferentiated type and StreetID/GroupName are already final.
type Grouping struct {
	Groups    []ecoharmonogram.BuildingGroup
	StreetID  string
	GroupName string
}

// Grouped reports whether the caller must pick one of Groups.
func (g Grouping) Grouped() bool { return len(g.Groups) > 0 }

// BuildingGroups resolves a street selection into a Grouping. When the
// provider returns no groups, the resolved identifier is streets[0].id, or
// the original choosedStreetIds token if the streets list is empty.
func (r *Resolver) BuildingGroups(ctx context.Context, q ecoharmonogram.StreetsQuery) (Grouping, error) {
	result, err := r.client.Streets(ctx, q)
	if err != nil {
		return Grouping{}, err
	}

	if items := result.GroupItems(); len(items) > 0 {
		return Grouping{Groups: items}, nil
	}

	if len(result.Streets) > 0 {
		groupName := result.Streets[0].ScheduleGroup
		if groupName == "" {
			groupName = "Default"
		}
		return Grouping{StreetID: result.Streets[0].ID, GroupName: groupName}, nil
	}
	return Grouping{StreetID: q.ChoosedStreetIDs, GroupName: "Default"}, nil
}

// findStreet locates a street row by name, preferring an exact match, then a
// case-insensitive one. General rows (no specific building numbers) always
// win over building-scoped rows.
func findStreet(streets []ecoharmonogram.Street, name string) (ecoharmonogram.Street, bool) {
	var fallback *ecoharmonogram.Street
	for i := range streets {
		s := streets[i]
		if s.Name != name && !strings.EqualFold(s.Name, name) {
			continue
		}
		if s.Numbers == "" && s.Name == name {
			return s, true
		}
		if fallback == nil || betterCandidate(s, *fallback, name) {
			fallback = &s
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return ecoharmonogram.Street{}, false
}

func betterCandidate(candidate, current ecoharmonogram.Street, name string) bool {
	// General rows beat building-scoped ones; exact casing beats folded.
	if (candidate.Numbers == "") != (current.Numbers == "") {
		return candidate.Numbers == ""
	}
	return candidate.Name == name && current.Name != name
}
