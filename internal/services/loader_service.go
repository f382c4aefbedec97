// filepath: internal/services/loader_service.go
package services

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"
	"trialdb/internal/config"
	"trialdb/internal/logging"
	"trialdb/internal/metrics"
	"trialdb/internal/models"
	"trialdb/internal/repository"
	"trialdb/internal/storage"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

var _ LoaderService = (*loaderService)(nil)

// loaderService rebuilds the store from a source export.
// Every load is a full replacement: the new store is written to a staging
// file next to the target and renamed over it only after a successful commit.
type loaderService struct {
	Cfg     *config.Config
	Auditor Auditor
	Metrics *metrics.Metrics
}

// NewLoaderService creates a new LoaderService.
func NewLoaderService(cfg *config.Config, auditor Auditor, m *metrics.Metrics) *loaderService {
	return &loaderService{
		Cfg:     cfg,
		Auditor: auditor,
		Metrics: m,
	}
}

// Load parses sourcePath and replaces the configured store with its contents.
// On error the previous store is left as it was.
func (s *loaderService) Load(ctx context.Context, sourcePath string) (*models.LoadReport, error) {
	started := time.Now().UTC()
	run := models.LoadRun{
		RunID:     ulid.Make().String(),
		Source:    sourcePath,
		StartedAt: started,
	}
	target := s.Cfg.Database.Path
	log := logging.Log.WithFields(logrus.Fields{
		"run_id":   run.RunID,
		"source":   sourcePath,
		"database": target,
	})
	log.Info("LoaderService: Starting load")

	report, err := s.load(ctx, run, target)
	if err != nil {
		s.Metrics.LoadFinished("failure")
		log.WithError(err).Error("LoaderService: Load failed, previous store left unchanged")
		s.audit(ctx, "store.load.failed", target, map[string]interface{}{
			"run_id": run.RunID,
			"source": sourcePath,
			"error":  err.Error(),
		})
		return nil, err
	}

	s.Metrics.LoadFinished("success")
	s.Metrics.RowsLoaded("subjects", report.Subjects)
	s.Metrics.RowsLoaded("samples", report.Samples)
	s.Metrics.RowsLoaded("cell_counts", report.CellCounts)

	log.WithFields(logrus.Fields{
		"subjects":    report.Subjects,
		"samples":     report.Samples,
		"cell_counts": report.CellCounts,
		"duration":    report.Duration.String(),
	}).Info("LoaderService: Load completed")
	s.audit(ctx, "store.load", target, map[string]interface{}{
		"run_id":      run.RunID,
		"source":      sourcePath,
		"subjects":    report.Subjects,
		"samples":     report.Samples,
		"cell_counts": report.CellCounts,
	})
	return report, nil
}

func (s *loaderService) load(ctx context.Context, run models.LoadRun, target string) (*models.LoadReport, error) {
	// 1. Parse and validate the whole source before touching any store.
	f, err := os.Open(run.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	records, err := ParseSource(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", run.Source, err)
	}

	// 2. Build the new store in a staging file.
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	staging, err := storage.StagingPath(target, run.RunID)
	if err != nil {
		return nil, err
	}
	repo, err := repository.Open(staging)
	if err != nil {
		removeStaging(staging)
		return nil, err
	}

	if err := repo.EnsureSchema(); err != nil {
		repo.Close()
		removeStaging(staging)
		return nil, err
	}
	if err := s.insertAll(ctx, repo, records, &run); err != nil {
		repo.Close()
		removeStaging(staging)
		return nil, err
	}
	if err := repo.Close(); err != nil {
		removeStaging(staging)
		return nil, fmt.Errorf("failed to close staging store: %w", err)
	}

	// 3. Swap it in.
	if err := os.Rename(staging, target); err != nil {
		removeStaging(staging)
		return nil, fmt.Errorf("failed to replace store: %w", err)
	}

	return &models.LoadReport{
		LoadRun:  run,
		Database: target,
		Duration: run.FinishedAt.Sub(run.StartedAt),
	}, nil
}

// insertAll writes every record in a single transaction, then the load_runs row.
func (s *loaderService) insertAll(ctx context.Context, repo *repository.Repository, records []models.SourceRecord, run *models.LoadRun) error {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	subjects := make(map[string]models.Subject)
	samples := make(map[string]int)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		if first, seen := subjects[rec.Subject.ID]; !seen {
			if err := tx.InsertSubjectInTx(ctx, rec.Subject); err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}
			subjects[rec.Subject.ID] = rec.Subject
			run.Subjects++
		} else if !sameSubject(first, rec.Subject) {
			logging.Log.Warnf("LoaderService: line %d: subject %s differs from its first occurrence, keeping the first", rec.Line, rec.Subject.ID)
		}

		if firstLine, dup := samples[rec.Sample.ID]; dup {
			return fmt.Errorf("%w: line %d: sample %s already defined on line %d", ErrDuplicateSample, rec.Line, rec.Sample.ID, firstLine)
		}
		if err := tx.InsertSampleInTx(ctx, rec.Sample); err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		samples[rec.Sample.ID] = rec.Line
		run.Samples++

		counts := rec.Metrics()
		if err := tx.InsertMetricsInTx(ctx, counts); err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		run.CellCounts += int64(len(counts))
	}

	run.FinishedAt = time.Now().UTC()
	if err := tx.InsertLoadRunInTx(ctx, *run); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	return nil
}

func (s *loaderService) audit(ctx context.Context, action, resource string, details map[string]interface{}) {
	if s.Auditor == nil {
		return
	}
	s.Auditor.Log(ctx, action, currentActor(), resource, details)
}

func sameSubject(a, b models.Subject) bool {
	if (a.Response == nil) != (b.Response == nil) {
		return false
	}
	if a.Response != nil && *a.Response != *b.Response {
		return false
	}
	return a.Project == b.Project && a.Condition == b.Condition && a.Age == b.Age &&
		a.Sex == b.Sex && a.Treatment == b.Treatment
}

func removeStaging(path string) {
	if _, err := storage.RemoveStaging(path); err != nil {
		logging.Log.Warnf("LoaderService: Failed to remove staging file %s: %v", path, err)
	}
}

func currentActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
