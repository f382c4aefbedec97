// filepath: internal/api/handlers/info_handler.go
package handlers

import (
	"errors"
	"net/http"
	"trialdb/internal/services"
)

// GetInfo returns the service information and, once the store is loaded,
// the latest load run.
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := h.Info.GetInfo()

	run, err := h.Analysis.LoadInfo(r.Context())
	if err != nil && !errors.Is(err, services.ErrStoreNotLoaded) {
		respondWithServiceError(w, "GetInfo", err)
		return
	}
	info.LastLoad = run
	respondWithJSON(w, http.StatusOK, info)
}
