// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"time"
	"trialdb/internal/config"
	"trialdb/internal/models"
	"trialdb/internal/services/mocks"

	"github.com/stretchr/testify/mock"
)

var testStartTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestHandlers wires Handlers to fresh mocks.
func newTestHandlers() (*Handlers, *mocks.MockInfoService, *mocks.MockAnalysisService) {
	info := new(mocks.MockInfoService)
	info.On("GetInfo").Return(models.Info{
		ServiceName: "trialdb",
		Version:     "v1.2.3-test",
		UptimeSince: testStartTime,
		Database:    "trialdb.db",
	}).Maybe()

	analysis := new(mocks.MockAnalysisService)
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return NewHandlers(info, analysis, cfg), info, analysis
}

// anyCtx matches the request context passed through to the services.
var anyCtx = mock.Anything
