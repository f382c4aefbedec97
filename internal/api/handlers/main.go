// filepath: internal/api/handlers/main.go
package handlers

import (
	"trialdb/internal/config"
	"trialdb/internal/services"
)

// Handlers holds the shared dependencies of the API handlers.
type Handlers struct {
	Info     services.InfoService
	Analysis services.AnalysisService

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(info services.InfoService, analysis services.AnalysisService, cfg *config.Config) *Handlers {
	return &Handlers{
		Info:     info,
		Analysis: analysis,
		Cfg:      cfg,
	}
}
