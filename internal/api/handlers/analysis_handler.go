// filepath: internal/api/handlers/analysis_handler.go
package handlers

import (
	"net/http"
	"trialdb/internal/logging"
	"trialdb/internal/output"
)

// wantsCSV reports whether the client asked for the CSV rendition.
func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == string(output.FormatCSV)
}

// respondWithCSV streams tables as a CSV attachment.
func respondWithCSV(w http.ResponseWriter, filename string, tables ...output.Table) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := output.Render(w, output.FormatCSV, nil, tables...); err != nil {
		// Headers are already sent.
		logging.Log.Errorf("respondWithCSV: Streaming %s failed: %v", filename, err)
	}
}

// GetOverview returns the relative frequency of every population in every sample.
// Query parameter format=csv returns the rows as CSV.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Analysis.Overview(r.Context())
	if err != nil {
		respondWithServiceError(w, "GetOverview", err)
		return
	}
	if wantsCSV(r) {
		respondWithCSV(w, "overview.csv", output.OverviewTable(rows))
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

// GetComparison returns the responder comparison rows and statistics.
func (h *Handlers) GetComparison(w http.ResponseWriter, r *http.Request) {
	result, err := h.Analysis.Comparison(r.Context())
	if err != nil {
		respondWithServiceError(w, "GetComparison", err)
		return
	}
	if wantsCSV(r) {
		respondWithCSV(w, "comparison.csv", output.ComparisonTables(result)...)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetSubset returns the baseline cohort tabulations.
func (h *Handlers) GetSubset(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Analysis.SubsetBreakdown(r.Context())
	if err != nil {
		respondWithServiceError(w, "GetSubset", err)
		return
	}
	if wantsCSV(r) {
		respondWithCSV(w, "subset.csv", output.SubsetTables(breakdown)...)
		return
	}
	respondWithJSON(w, http.StatusOK, breakdown)
}
