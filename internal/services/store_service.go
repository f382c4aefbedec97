// filepath: internal/services/store_service.go
package services

import (
	"context"
	"trialdb/internal/config"
	"trialdb/internal/logging"
	"trialdb/internal/models"
	"trialdb/internal/repository"
)

var _ StoreService = (*storeService)(nil)

// storeService handles schema management and integrity checks.
type storeService struct {
	Cfg *config.Config
}

// NewStoreService creates a new StoreService.
func NewStoreService(cfg *config.Config) *storeService {
	return &storeService{Cfg: cfg}
}

// EnsureSchema creates the store if needed and applies the schema.
// It returns the resulting schema version.
func (s *storeService) EnsureSchema(ctx context.Context) (int64, error) {
	repo, err := repository.NewRepository(s.Cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(); err != nil {
		logging.Log.Errorf("StoreService: Failed to apply schema to %s: %v", s.Cfg.Database.Path, err)
		return 0, err
	}
	version, err := repo.SchemaVersion()
	if err != nil {
		return 0, err
	}
	logging.Log.Infof("StoreService: Schema of %s is at version %d", s.Cfg.Database.Path, version)
	return version, nil
}

// SchemaStatus logs the migration state of an existing store.
func (s *storeService) SchemaStatus(ctx context.Context) error {
	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.SchemaStatus()
}

// Verify runs the integrity check against an existing store.
func (s *storeService) Verify(ctx context.Context) ([]models.IntegrityIssue, error) {
	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	issues, err := repo.CheckIntegrity(ctx)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		logging.Log.Warnf("StoreService: %d integrity issue(s) found in %s", len(issues), s.Cfg.Database.Path)
	}
	return issues, nil
}

// Counts returns the number of rows in each entity table.
func (s *storeService) Counts(ctx context.Context) (repository.TableCounts, error) {
	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return repository.TableCounts{}, err
	}
	defer repo.Close()

	return repo.CountRows(ctx)
}
