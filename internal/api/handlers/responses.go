// internal/api/handlers/responses.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"trialdb/internal/logging"
	"trialdb/internal/services"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithServiceError maps a service error to its HTTP status.
func respondWithServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, services.ErrStoreNotLoaded) {
		respondWithError(w, http.StatusServiceUnavailable, services.ErrStoreNotLoaded.Error())
		return
	}
	logging.Log.Errorf("%s: %v", op, err)
	respondWithError(w, http.StatusInternalServerError, "Query failed")
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
