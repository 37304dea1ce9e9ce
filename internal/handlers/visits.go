package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/receptio/visitlog/internal/visits"
)

func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	var req visits.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.serviceFor(r).RegisterEntry(r.Context(), req); err != nil {
		h.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (h *Handler) HandleExit(w http.ResponseWriter, r *http.Request) {
	var req visits.ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exitTime, err := h.serviceFor(r).RegisterExit(r.Context(), req)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"exit_time": exitTime})
}

func (h *Handler) HandleActiveList(w http.ResponseWriter, r *http.Request) {
	if !h.engine.CanViewActiveList() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	result, err := h.serviceFor(r).ActiveVisits(r.Context(), activeFilter(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.engine.CanViewHistory() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	filter := historyFilter(r)
	result, err := h.serviceFor(r).HistoryVisits(r.Context(), filter)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.auditView(r, "Viewed access list", fmt.Sprintf("Filters: q=%s, from=%s, to=%s, status=%s",
		filter.Search, filter.From, filter.To, filter.Status))

	writeJSON(w, http.StatusOK, result)
}

// auditView records a sensitive read on the audit trail. A failed append is
// logged but does not fail the view; the data has already been fetched.
func (h *Handler) auditView(r *http.Request, action, details string) {
	actor := h.actorFor(r)
	if err := h.audit.Append(r.Context(), nil, action, details, actor.PerformedBy, actor.IPAddress); err != nil {
		h.log.WithError(err).Warn("Failed to append audit entry for view")
	}
}

func activeFilter(r *http.Request) visits.Filter {
	q := r.URL.Query()
	return visits.Filter{
		Search: strings.TrimSpace(q.Get("search")),
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
	}
}

func historyFilter(r *http.Request) visits.HistoryFilter {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = visits.StatusAll
	}
	return visits.HistoryFilter{
		Filter: activeFilter(r),
		Status: status,
	}
}
