package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/receptio/visitlog/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04:05"

func (h *Handler) HandleExportActive(w http.ResponseWriter, r *http.Request) {
	if !h.engine.CanViewActiveList() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	result, err := h.serviceFor(r).ActiveVisits(r.Context(), activeFilter(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.auditView(r, "Exported active list", fmt.Sprintf("Records: %d", len(result)))

	streamCSV(w, "active_visits.csv",
		[]string{"ID", "First name", "Last name", "Company", "Host", "Entry time"},
		result, false)
}

func (h *Handler) HandleExportHistory(w http.ResponseWriter, r *http.Request) {
	if !h.engine.CanViewHistory() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	result, err := h.serviceFor(r).HistoryVisits(r.Context(), historyFilter(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.auditView(r, "Exported history", fmt.Sprintf("Records: %d", len(result)))

	streamCSV(w, "visit_history.csv",
		[]string{"ID", "First name", "Last name", "Company", "Host", "Entry time", "Exit time"},
		result, true)
}

func streamCSV(w http.ResponseWriter, filename string, header []string, rows []models.Visit, withExit bool) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(w)
	writer.Write(header)

	for _, visit := range rows {
		record := []string{
			strconv.FormatUint(uint64(visit.ID), 10),
			visit.FirstName,
			visit.LastName,
			stringOrEmpty(visit.Company),
			visit.HostLastName,
			visit.EntryTime.Format(exportTimeLayout),
		}
		if withExit {
			exit := ""
			if visit.ExitTime != nil {
				exit = visit.ExitTime.Format(exportTimeLayout)
			}
			record = append(record, exit)
		}
		writer.Write(record)
	}

	writer.Flush()
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
