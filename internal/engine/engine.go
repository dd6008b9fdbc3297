package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/metrics"
	"waste-schedule-service/internal/providers/ecoharmonogram"
	"waste-schedule-service/internal/resolver"
	"waste-schedule-service/internal/schedule"
)

// Locator is the subset of the resolver the engine drives each cycle.
type Locator interface {
	CurrentPeriod(ctx context.Context, communityID string) (schedule.Period, error)
	ResolveLocation(ctx context.Context, loc resolver.StaleLocation) (streetID, choosedIDs string, err error)
	Strategies(loc resolver.StaleLocation) []resolver.RecoveryStrategy
}

// Fetcher fetches raw schedule payloads.
type Fetcher interface {
	Schedules(ctx context.Context, q ecoharmonogram.ScheduleQuery) (ecoharmonogram.SchedulePayload, error)
}

// Options tunes a single refresh cycle.
type Options struct {
	// ForceResolve re-runs street resolution even when the period is
	// unchanged (the manual-refresh path).
	ForceResolve bool
}

// Result is the outcome of one refresh cycle. Baseline is the replacement
// state the caller must persist before the next cycle.
type Result struct {
	Schedule     schedule.Schedule
	Descriptions schedule.Descriptions
	Baseline     schedule.Baseline
	FromCache    bool
	RefreshedAt  time.Time
}

// Engine orchestrates one refresh: resolve the current period, detect
// period/identifier change, re-resolve the location when needed, fetch and
// parse the schedule, and fall back to last-known-good data on failure.
//
// Refresh is not safe for concurrent use; the poller serializes manual and
// timer-driven triggers so there is exactly one mutator of the baseline.
type Engine struct {
	locator     Locator
	fetcher     Fetcher
	communityID string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	now         func() time.Time

	cacheSchedule schedule.Schedule
	cacheDescs    schedule.Descriptions
}

// New constructs an Engine.
func New(locator Locator, fetcher Fetcher, communityID string, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	return &Engine{
		locator:     locator,
		fetcher:     fetcher,
		communityID: communityID,
		logger:      logger,
		metrics:     recorder,
		now:         time.Now,
	}
}

// SeedCache primes the last-known-good data, typically from a disk snapshot
// at boot. The cache is only ever returned as a fallback, never proactively.
func (e *Engine) SeedCache(sched schedule.Schedule, descs schedule.Descriptions) {
	if len(sched) == 0 || len(descs) == 0 {
		return
	}
	e.cacheSchedule = sched
	e.cacheDescs = descs
}

// Refresh runs one reconciliation cycle against the given baseline.
func (e *Engine) Refresh(ctx context.Context, baseline schedule.Baseline, opts Options) (Result, error) {
	start := e.now()

	period, err := e.locator.CurrentPeriod(ctx, e.communityID)
	if err != nil {
		if errors.Is(err, resolver.ErrNoPeriods) {
			// Fatal: nothing to fall back to, by contract.
			e.record(start, err)
			return Result{}, ErrNoActivePeriod
		}
		return e.fallbackOrFail(baseline, start, err)
	}

	periodChanged := period.ID != baseline.Period.ID
	needsResolve := periodChanged || opts.ForceResolve || !baseline.Configured()

	if needsResolve {
		baseline = e.resolveBaseline(ctx, baseline, period, periodChanged)
	}

	payload, err := e.fetcher.Schedules(ctx, e.scheduleQuery(baseline))
	if err != nil {
		return e.fallbackOrFail(baseline, start, err)
	}

	parsed, descs := schedule.Parse(payload, nil, e.logger)
	if parsed.Empty() || len(descs) == 0 {
		return e.handleEmpty(ctx, baseline, start)
	}

	if periodChanged && len(baseline.SelectedCategoryIDs) > 0 && len(e.cacheDescs) > 0 {
		remapped := RemapSelection(baseline.SelectedCategoryIDs, e.cacheDescs, descs)
		if !equalIDs(remapped, baseline.SelectedCategoryIDs) {
			logging.Info(e.logger, "remapped category selection across period change",
				slog.Any("old", baseline.SelectedCategoryIDs),
				slog.Any("new", remapped),
			)
			baseline.SelectedCategoryIDs = remapped
			baseline.Version++
		}
	}

	// The cache keeps the unfiltered data so a later selection change or
	// remap still has every category to work with.
	e.cacheSchedule = parsed
	e.cacheDescs = descs
	e.record(start, nil)
	logging.Info(e.logger, "refresh complete",
		slog.String(logging.FieldPeriodID, baseline.Period.ID),
		slog.Int(logging.FieldCount, parsed.TotalDates()),
		slog.Int64(logging.FieldDurationMS, e.now().Sub(start).Milliseconds()),
	)

	parsed, descs = applySelection(parsed, descs, baseline.SelectedCategoryIDs)
	return Result{
		Schedule:     parsed,
		Descriptions: descs,
		Baseline:     baseline,
		RefreshedAt:  e.now(),
	}, nil
}

// resolveBaseline re-derives the street identifier for the target period and
// persists the new (period, location) pair into the returned baseline before
// any schedule fetch, so a later failure does not re-trigger resolution.
// When resolution itself fails the old identifiers and period are kept; the
// next cycle will retry.
func (e *Engine) resolveBaseline(ctx context.Context, baseline schedule.Baseline, period schedule.Period, periodChanged bool) schedule.Baseline {
	if periodChanged {
		logging.Info(e.logger, "schedule period changed",
			slog.String("old_period_id", baseline.Period.ID),
			slog.String(logging.FieldPeriodID, period.ID),
			slog.String("start", period.StartDate),
			slog.String("end", period.EndDate),
		)
	}

	streetID, choosedIDs, err := e.locator.ResolveLocation(ctx, resolver.StaleLocation{
		TownID:      baseline.Location.TownID,
		PeriodID:    period.ID,
		StreetName:  baseline.Location.StreetName,
		Number:      baseline.Location.BuildingNumber,
		GroupName:   baseline.Location.GroupName,
		OldStreetID: baseline.Location.StreetID,
	})
	if err != nil {
		logging.Warn(e.logger, "street resolution failed, keeping previous identifier",
			slog.String(logging.FieldStreetID, baseline.Location.StreetID),
			slog.Any("err", err),
		)
		return baseline
	}

	baseline.Period = period
	baseline.Location.StreetID = streetID
	baseline.Location.ChoosedStreetIDs = choosedIDs
	baseline.Version++
	if e.metrics != nil {
		e.metrics.RecordResolution()
	}
	logging.Info(e.logger, "location resolved for period",
		slog.String(logging.FieldPeriodID, period.ID),
		slog.String(logging.FieldStreetID, streetID),
	)
	return baseline
}

// handleEmpty applies the empty-payload policy: cache first (a fresh period
// may simply have no data yet), then identifier recovery with a single
// retry, then a surfaced NoDataError.
func (e *Engine) handleEmpty(ctx context.Context, baseline schedule.Baseline, start time.Time) (Result, error) {
	if len(e.cacheSchedule) > 0 && len(e.cacheDescs) > 0 {
		logging.Warn(e.logger, "empty schedule data, serving cached schedule",
			slog.String(logging.FieldPeriodID, baseline.Period.ID))
		if e.metrics != nil {
			e.metrics.RecordCacheFallback()
		}
		e.record(start, nil)
		return e.cachedResult(baseline), nil
	}

	stale := resolver.StaleLocation{
		TownID:      baseline.Location.TownID,
		PeriodID:    baseline.Period.ID,
		StreetName:  baseline.Location.StreetName,
		Number:      baseline.Location.BuildingNumber,
		GroupName:   baseline.Location.GroupName,
		OldStreetID: baseline.Location.StreetID,
	}

	for _, strategy := range e.locator.Strategies(stale) {
		id, err := strategy.Recover(ctx, stale)
		if err != nil {
			logging.Warn(e.logger, "identifier recovery failed",
				slog.String("strategy", strategy.Name()), slog.Any("err", err))
			continue
		}
		if id == stale.OldStreetID {
			continue
		}
		if e.metrics != nil {
			e.metrics.RecordResolution()
		}
		baseline.Location.StreetID = id
		baseline.Version++

		payload, err := e.fetcher.Schedules(ctx, e.scheduleQuery(baseline))
		if err != nil {
			return e.fallbackOrFail(baseline, start, err)
		}
		parsed, descs := schedule.Parse(payload, nil, e.logger)
		if !parsed.Empty() && len(descs) > 0 {
			e.cacheSchedule = parsed
			e.cacheDescs = descs
			e.record(start, nil)
			logging.Info(e.logger, "recovered stale street identifier",
				slog.String("strategy", strategy.Name()),
				slog.String(logging.FieldStreetID, id),
			)
			parsed, descs = applySelection(parsed, descs, baseline.SelectedCategoryIDs)
			return Result{
				Schedule:     parsed,
				Descriptions: descs,
				Baseline:     baseline,
				RefreshedAt:  e.now(),
			}, nil
		}
		break
	}

	err := &NoDataError{PeriodID: baseline.Period.ID, Reason: "schedule and descriptions empty"}
	e.record(start, err)
	return Result{Baseline: baseline}, err
}

func (e *Engine) fallbackOrFail(baseline schedule.Baseline, start time.Time, err error) (Result, error) {
	if len(e.cacheSchedule) > 0 && len(e.cacheDescs) > 0 {
		logging.Warn(e.logger, "refresh failed, serving cached schedule", slog.Any("err", err))
		if e.metrics != nil {
			e.metrics.RecordCacheFallback()
		}
		e.record(start, nil)
		return e.cachedResult(baseline), nil
	}
	e.record(start, err)
	return Result{Baseline: baseline}, err
}

func (e *Engine) cachedResult(baseline schedule.Baseline) Result {
	sched, descs := applySelection(e.cacheSchedule, e.cacheDescs, baseline.SelectedCategoryIDs)
	return Result{
		Schedule:     sched,
		Descriptions: descs,
		Baseline:     baseline,
		FromCache:    true,
		RefreshedAt:  e.now(),
	}
}

func applySelection(sched schedule.Schedule, descs schedule.Descriptions, selectedIDs []string) (schedule.Schedule, schedule.Descriptions) {
	if len(selectedIDs) == 0 {
		return sched, descs
	}
	return schedule.FilterSelected(sched, descs, selectedIDs)
}

func (e *Engine) scheduleQuery(baseline schedule.Baseline) ecoharmonogram.ScheduleQuery {
	return ecoharmonogram.ScheduleQuery{
		Number:     baseline.Location.BuildingNumber,
		StreetID:   baseline.Location.StreetID,
		TownID:     baseline.Location.TownID,
		StreetName: baseline.Location.StreetName,
		PeriodID:   baseline.Period.ID,
	}
}

func (e *Engine) record(start time.Time, err error) {
	if e.metrics != nil {
		e.metrics.RecordRefresh(e.now().Sub(start), err)
	}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
