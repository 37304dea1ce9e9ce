package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/receptio/visitlog/internal/config"
)

func RegisterRoutes(r *mux.Router, h *Handler, cfg *config.Config) {
	limited := RateLimitMiddleware(cfg)

	r.Handle("/api/visits/entry", limited(http.HandlerFunc(h.HandleEntry))).Methods("POST")
	r.Handle("/api/visits/exit", limited(http.HandlerFunc(h.HandleExit))).Methods("POST")

	r.HandleFunc("/api/visits/active", h.HandleActiveList).Methods("GET")
	r.HandleFunc("/api/visits/active/export", h.HandleExportActive).Methods("GET")
	r.HandleFunc("/api/visits/history", h.HandleHistory).Methods("GET")
	r.HandleFunc("/api/visits/history/export", h.HandleExportHistory).Methods("GET")
	r.HandleFunc("/api/audit", h.HandleAuditLog).Methods("GET")
	r.HandleFunc("/api/capabilities", h.HandleCapabilities).Methods("GET")

	r.HandleFunc("/healthz", HandleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
