// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"trialdb/internal/models"
	"trialdb/internal/repository"
)

// Auditor defines the interface for recording maintenance events.
type Auditor interface {
	// Log records an event.
	// action: what happened (e.g., "store.load")
	// actor: who did it (OS user or "api")
	// resource: what was affected (the store path)
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// LoaderService rebuilds the store from a source export.
type LoaderService interface {
	Load(ctx context.Context, sourcePath string) (*models.LoadReport, error)
}

// AnalysisService defines the read-only analytical queries.
type AnalysisService interface {
	Overview(ctx context.Context) ([]models.OverviewRow, error)
	Comparison(ctx context.Context) (*models.ComparisonResult, error)
	SubsetBreakdown(ctx context.Context) (*models.SubsetBreakdown, error)
	LoadInfo(ctx context.Context) (*models.LoadRun, error)
}

// StoreService defines schema management and integrity checks of the store.
type StoreService interface {
	EnsureSchema(ctx context.Context) (int64, error)
	SchemaStatus(ctx context.Context) error
	Verify(ctx context.Context) ([]models.IntegrityIssue, error)
	Counts(ctx context.Context) (repository.TableCounts, error)
}
