package handlers

import (
	"net/http"
	"time"
)

// HandleCapabilities tells the kiosk UI which views it may render and which
// palette to use.
func (h *Handler) HandleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"can_view_active_list": h.engine.CanViewActiveList(),
		"can_view_history":     h.engine.CanViewHistory(),
		"can_view_audit_logs":  h.engine.CanViewAuditLogs(),
		"theme":                h.cfg.ActiveTheme(time.Now()),
	})
}
