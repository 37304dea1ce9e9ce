package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/receptio/visitlog/internal/visits"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps lifecycle failures onto HTTP: validation messages are
// safe for the caller, anything else stays in the log.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	if visits.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.WithError(err).Error("Request failed")
	writeError(w, http.StatusInternalServerError, "unexpected error")
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
