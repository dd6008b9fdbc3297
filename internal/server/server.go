package server

import (
	"context"
	"log/slog"
	"net/http"

	"waste-schedule-service/internal/app/scheduleview"
	"waste-schedule-service/internal/config"
	"waste-schedule-service/internal/engine"
	httpserver "waste-schedule-service/internal/http"
	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/metrics"
	"waste-schedule-service/internal/poller"
	"waste-schedule-service/internal/providers/ecoharmonogram"
	"waste-schedule-service/internal/resolver"
	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/snapshots"
	"waste-schedule-service/internal/store"
)

var metricsSetup = metrics.Setup

// Server assembles the provider client, resolver, engine, poller and HTTP
// surface into one runnable unit.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with default wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsStop := buildMetrics(cfg, logger)

	client := ecoharmonogram.NewClient(ecoharmonogram.Config{
		BaseURL: cfg.Ecoharmonogram.BaseURL,
		Logger:  logger,
		Verbose: cfg.Ecoharmonogram.Verbose,
	})
	res := resolver.New(client, logger)
	eng := engine.New(res, client, cfg.Location.CommunityID, logger, recorder)

	snaps, baseline := buildSnapshots(cfg, eng, logger)
	memoryStore := store.NewMemoryStore()
	plr := poller.New(eng, memoryStore, snaps, logger, cfg.RefreshInterval, baseline)
	httpSrv := buildHTTPServer(cfg, memoryStore, logger, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsStop,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, memoryStore *store.MemoryStore, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      memoryStore,
		httpServer: httpSrv,
		poller:     plr,
	}
}

// buildSnapshots loads the persisted baseline and last good schedule. A
// missing snapshot directory yields the configured location with no derived
// identifiers, which the first refresh cycle then resolves.
func buildSnapshots(cfg config.Config, eng *engine.Engine, logger *slog.Logger) (snapshots.Store, schedule.Baseline) {
	baseline := baselineFromConfig(cfg.Location)

	if !cfg.Snapshots.Enabled {
		return nil, baseline
	}
	snaps := snapshots.NewFSStore(cfg.Snapshots.Dir)

	if persisted, ok, err := snaps.LoadBaseline(); err != nil {
		logging.Warn(logger, "baseline snapshot unreadable, starting fresh", slog.Any("err", err))
	} else if ok {
		baseline = reconcileBaseline(persisted, cfg.Location, logger)
	}

	if snap, ok, err := snaps.LoadSchedule(); err != nil {
		logging.Warn(logger, "schedule snapshot unreadable, starting without cache", slog.Any("err", err))
	} else if ok {
		eng.SeedCache(snap.Schedule, snap.Descriptions)
		logging.Info(logger, "seeded schedule cache from disk",
			slog.Int(logging.FieldCount, snap.Schedule.TotalDates()))
	}

	return snaps, baseline
}

func baselineFromConfig(loc config.LocationConfig) schedule.Baseline {
	return schedule.Baseline{
		Location: schedule.Location{
			TownID:         loc.TownID,
			StreetName:     loc.StreetName,
			BuildingNumber: loc.BuildingNumber,
			GroupName:      loc.GroupName,
		},
		SelectedCategoryIDs: loc.SelectedCategoryIDs,
	}
}

// reconcileBaseline keeps the persisted state unless the configured address
// changed, in which case derived identifiers are stale and must be dropped.
func reconcileBaseline(persisted schedule.Baseline, loc config.LocationConfig, logger *slog.Logger) schedule.Baseline {
	if persisted.Location.TownID != loc.TownID ||
		persisted.Location.StreetName != loc.StreetName ||
		persisted.Location.BuildingNumber != loc.BuildingNumber {
		logging.Info(logger, "configured address changed, discarding persisted baseline",
			slog.String("street", loc.StreetName))
		return baselineFromConfig(loc)
	}
	if len(loc.SelectedCategoryIDs) > 0 {
		persisted.SelectedCategoryIDs = loc.SelectedCategoryIDs
	}
	if loc.GroupName != "" {
		persisted.Location.GroupName = loc.GroupName
	}
	return persisted
}

func buildHTTPServer(cfg config.Config, memoryStore *store.MemoryStore, logger *slog.Logger, plr Poller) httpServer {
	var (
		statusFn  func() poller.Status
		triggerFn func(engine.Options) bool
	)
	if plr != nil {
		statusFn = plr.Status
		triggerFn = plr.TriggerRefresh
	}

	view := scheduleview.NewService(memoryStore)
	handler := httpserver.NewHandler(view, statusFn, triggerFn, memoryStore.Baseline, cfg.AdminToken, logger)
	router := httpserver.NewRouter(handler)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := httpserver.LoggingMiddleware(logger, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation
// to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("err", err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + cfg.Metrics.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
