package http

import (
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"waste-schedule-service/internal/app/scheduleview"
	"waste-schedule-service/internal/engine"
	"waste-schedule-service/internal/export"
	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/poller"
	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/timeutil"
)

type nowFunc func() time.Time

// Handler wires HTTP routes to the schedule read model and the poller.
type Handler struct {
	view       *scheduleview.Service
	statusFn   func() poller.Status
	triggerFn  func(engine.Options) bool
	baselineFn func() (schedule.Baseline, bool)
	adminToken string
	logger     *slog.Logger
	now        nowFunc
}

// NewHandler constructs a Handler with defaults.
func NewHandler(view *scheduleview.Service, statusFn func() poller.Status, triggerFn func(engine.Options) bool, baselineFn func() (schedule.Baseline, bool), adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		view:       view,
		statusFn:   statusFn,
		triggerFn:  triggerFn,
		baselineFn: baselineFn,
		adminToken: adminToken,
		logger:     logger,
		now:        time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness for traffic. Not ready until the first successful
// refresh, or after repeated refresh failures.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		h.writeError(w, nethttp.StatusServiceUnavailable, "poller not configured")
		return
	}
	status := h.statusFn()
	if !status.IsReady() {
		h.writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
			"status":               "not ready",
			"consecutive_failures": status.ConsecutiveFailures,
			"last_error":           status.LastError,
		})
		return
	}
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"})
}

// Schedule returns the full schedule snapshot.
func (h *Handler) Schedule(w nethttp.ResponseWriter, r *nethttp.Request) {
	overview, ok := h.view.Overview()
	if !ok {
		h.writeError(w, nethttp.StatusServiceUnavailable, "schedule not loaded yet")
		return
	}
	h.writeJSON(w, nethttp.StatusOK, overview)
}

// Today returns the collections happening today.
func (h *Handler) Today(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeCollections(w, h.view.Today(), timeutil.FormatDate(h.now()))
}

// Tomorrow returns the collections happening tomorrow.
func (h *Handler) Tomorrow(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeCollections(w, h.view.Tomorrow(), timeutil.FormatDate(h.now().AddDate(0, 0, 1)))
}

// Next returns the collections on the nearest day with a pickup.
func (h *Handler) Next(w nethttp.ResponseWriter, r *nethttp.Request) {
	next, ok := h.view.Next()
	if !ok {
		h.writeError(w, nethttp.StatusNotFound, "no upcoming collections")
		return
	}
	h.writeCollections(w, next, timeutil.FormatDate(next[0].Date))
}

// Upcoming returns future collections, optionally capped with ?limit=N.
func (h *Handler) Upcoming(w nethttp.ResponseWriter, r *nethttp.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, nethttp.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	entries := h.view.Upcoming(limit)
	h.writeJSON(w, nethttp.StatusOK, map[string]any{
		"count":       len(entries),
		"collections": entries,
	})
}

// Categories returns the known waste categories.
func (h *Handler) Categories(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]any{"categories": h.view.Categories()})
}

// ExportCSV streams the schedule as a CSV download.
func (h *Handler) ExportCSV(w nethttp.ResponseWriter, r *nethttp.Request) {
	overview, ok := h.view.Overview()
	if !ok {
		h.writeError(w, nethttp.StatusServiceUnavailable, "schedule not loaded yet")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=waste-schedule.csv`)
	if err := export.WriteCSV(w, overview.Schedule, h.descriptions()); err != nil {
		logging.Error(h.logger, "csv export failed", err)
	}
}

// ExportICS streams the schedule as an iCalendar feed suitable for calendar
// subscriptions.
func (h *Handler) ExportICS(w nethttp.ResponseWriter, r *nethttp.Request) {
	overview, ok := h.view.Overview()
	if !ok {
		h.writeError(w, nethttp.StatusServiceUnavailable, "schedule not loaded yet")
		return
	}
	opts := export.ICSOptions{CalendarName: "Waste Collection", Stamp: h.now()}
	if h.baselineFn != nil {
		if baseline, ok := h.baselineFn(); ok {
			loc := strings.TrimSpace(baseline.Location.StreetName + " " + baseline.Location.BuildingNumber)
			opts.Location = loc
			if loc != "" {
				opts.CalendarName = "Waste Collection " + loc
			}
		}
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := export.WriteICS(w, overview.Schedule, h.descriptions(), opts); err != nil {
		logging.Error(h.logger, "ics export failed", err)
	}
}

// AdminRefresh queues a manual refresh cycle. Guarded by ADMIN_TOKEN; a
// force=true query re-runs street resolution even for an unchanged period.
func (h *Handler) AdminRefresh(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		h.writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", clientIP(r)),
		)
		h.writeError(w, nethttp.StatusUnauthorized, "unauthorized")
		return
	}
	if h.triggerFn == nil {
		h.writeError(w, nethttp.StatusServiceUnavailable, "poller not configured")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if !h.triggerFn(engine.Options{ForceResolve: force}) {
		h.writeError(w, nethttp.StatusConflict, "refresh already pending")
		return
	}
	logging.Info(h.logger, "manual refresh queued", slog.Bool("force", force))
	h.writeJSON(w, nethttp.StatusAccepted, map[string]any{
		"status": "queued",
		"force":  force,
	})
}

func (h *Handler) authorize(r *nethttp.Request) bool {
	if h.adminToken == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.adminToken
}

func (h *Handler) writeCollections(w nethttp.ResponseWriter, entries []scheduleview.Collection, date string) {
	h.writeJSON(w, nethttp.StatusOK, map[string]any{
		"date":        date,
		"count":       len(entries),
		"collections": entries,
	})
}

func (h *Handler) descriptions() schedule.Descriptions {
	descs := schedule.Descriptions{}
	for _, cat := range h.view.Categories() {
		descs[cat.Name] = cat
	}
	return descs
}

func clientIP(r *nethttp.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
