package handlers

import (
	"net/http"
	"strconv"
)

func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	if !h.engine.CanViewAuditLogs() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	limit := h.cfg.AuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.audit.Latest(r.Context(), limit)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.auditView(r, "Viewed audit log", "Audit trail consulted")

	writeJSON(w, http.StatusOK, entries)
}
