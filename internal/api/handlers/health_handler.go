// internal/api/handlers/health_handler.go
package handlers

import (
	"fmt"
	"net/http"
)

// HealthCheck confirms the server is running. It does not touch the store.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
