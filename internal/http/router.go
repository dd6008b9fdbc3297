package http

import nethttp "net/http"

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/schedule", handler.Schedule)
	mux.HandleFunc("/schedule/today", handler.Today)
	mux.HandleFunc("/schedule/tomorrow", handler.Tomorrow)
	mux.HandleFunc("/schedule/next", handler.Next)
	mux.HandleFunc("/schedule/upcoming", handler.Upcoming)
	mux.HandleFunc("/schedule/export.csv", handler.ExportCSV)
	mux.HandleFunc("/schedule/export.ics", handler.ExportICS)
	mux.HandleFunc("/categories", handler.Categories)
	mux.HandleFunc("/admin/refresh", handler.AdminRefresh)
	return mux
}
