package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"waste-schedule-service/internal/engine"
	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/snapshots"
)

const defaultInterval = 24 * time.Hour

// Refresher runs one reconciliation cycle.
type Refresher interface {
	Refresh(ctx context.Context, baseline schedule.Baseline, opts engine.Options) (engine.Result, error)
}

// ResultStore receives the latest refresh result.
type ResultStore interface {
	SetResult(result engine.Result)
}

// Poller drives refresh cycles on an interval and on manual triggers. It is
// the single owner of the baseline: timer ticks and manual triggers are
// serialized through one goroutine, so the engine never runs concurrently.
type Poller struct {
	engine   Refresher
	store    ResultStore
	snaps    snapshots.Store
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	baseline schedule.Baseline

	ticker   *time.Ticker
	trigger  chan engine.Options
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults. The baseline seeds the first
// cycle, typically loaded from a disk snapshot.
func New(refresher Refresher, store ResultStore, snaps snapshots.Store, logger *slog.Logger, interval time.Duration, baseline schedule.Baseline) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		engine:   refresher,
		store:    store,
		snaps:    snaps,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		baseline: baseline,
		trigger:  make(chan engine.Options, 1),
		done:     make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Initial refresh to warm data on boot.
		p.refreshOnce(ctx, engine.Options{})

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.refreshOnce(ctx, engine.Options{})
			case opts := <-p.trigger:
				p.refreshOnce(ctx, opts)
			}
		}
	}()
}

// Stop halts the refresh loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// TriggerRefresh queues a manual refresh. It never blocks; false means a
// trigger is already pending.
func (p *Poller) TriggerRefresh(opts engine.Options) bool {
	select {
	case p.trigger <- opts:
		return true
	default:
		return false
	}
}

func (p *Poller) refreshOnce(ctx context.Context, opts engine.Options) {
	start := p.now()
	p.recordAttempt(start)

	result, err := p.engine.Refresh(ctx, p.baseline, opts)

	// The returned baseline is the replacement state even on failure, e.g.
	// after a recovery attempt rotated the street identifier.
	if result.Baseline.Version != p.baseline.Version || result.Baseline.Configured() {
		p.baseline = result.Baseline
		p.persistBaseline()
	}

	if err != nil {
		logging.Error(p.logger, "refresh cycle failed", err,
			slog.Int64(logging.FieldDurationMS, p.now().Sub(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}

	if p.store != nil {
		p.store.SetResult(result)
	}
	if !result.FromCache {
		p.persistSchedule(result)
	}
	p.recordSuccess(start)
	logging.Info(p.logger, "refresh cycle complete",
		slog.Int(logging.FieldCount, result.Schedule.TotalDates()),
		slog.Bool("from_cache", result.FromCache),
		slog.Int64(logging.FieldDurationMS, p.now().Sub(start).Milliseconds()),
	)
}

func (p *Poller) persistBaseline() {
	if p.snaps == nil {
		return
	}
	if err := p.snaps.SaveBaseline(p.baseline); err != nil {
		logging.Error(p.logger, "baseline snapshot write failed", err)
	}
}

func (p *Poller) persistSchedule(result engine.Result) {
	if p.snaps == nil {
		return
	}
	snap := snapshots.ScheduleSnapshot{
		Schedule:     result.Schedule,
		Descriptions: result.Descriptions,
		RefreshedAt:  result.RefreshedAt,
	}
	if err := p.snaps.SaveSchedule(snap); err != nil {
		logging.Error(p.logger, "schedule snapshot write failed", err)
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
