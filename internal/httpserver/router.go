package httpserver

import (
	"net/http"
	"trialdb/internal/api/handlers"

	"github.com/gorilla/mux"
)

// SetupRouter configures the read-only API. metrics may be nil.
func SetupRouter(h *handlers.Handlers, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Public Endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	apiRouter := r.PathPrefix("/api").Subrouter()
	addAnalysisRoutes(apiRouter, h)

	return r
}

// addAnalysisRoutes configures the query endpoints.
func addAnalysisRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/info", h.GetInfo).Methods("GET")
	r.HandleFunc("/overview", h.GetOverview).Methods("GET")
	r.HandleFunc("/comparison", h.GetComparison).Methods("GET")
	r.HandleFunc("/subset", h.GetSubset).Methods("GET")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, "not found: "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method)
}
