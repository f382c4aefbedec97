// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"fmt"
	"time"
	"trialdb/internal/logging"
	"trialdb/internal/metrics"
	"trialdb/internal/models"
	"trialdb/internal/storage"
)

// StorageTX defines the storage methods required by the housekeeping tasks.
type StorageTX interface {
	ListStaging(target string) ([]storage.StagingFile, error)
	RemoveStaging(path string) (int64, error)
}

// Dependencies defines the required services for the housekeeping tasks.
type Dependencies struct {
	Storage StorageTX
	Metrics *metrics.Metrics
}

// SweepStaging removes the staging files of target that have not been touched
// for maxAge. A load in progress keeps writing its staging file, so only
// files abandoned by an interrupted load grow that old. A maxAge of 0
// disables the sweep.
func SweepStaging(deps Dependencies, target string, maxAge time.Duration, now time.Time) (*models.HousekeepingReport, error) {
	report := &models.HousekeepingReport{Database: target}

	if maxAge == 0 {
		logging.Log.Debugf("Housekeeping sweep is disabled for '%s' (max_age is 0).", target)
		report.Message = fmt.Sprintf("Housekeeping disabled for '%s'.", target)
		return report, nil
	}

	files, err := deps.Storage.ListStaging(target)
	if err != nil {
		return nil, fmt.Errorf("could not list staging files: %w", err)
	}

	cutoff := now.Add(-maxAge)
	for _, f := range files {
		if f.ModTime.After(cutoff) {
			report.Skipped = append(report.Skipped, f.Path)
			continue
		}
		freed, err := deps.Storage.RemoveStaging(f.Path)
		if err != nil {
			logging.Log.Warnf("Housekeeping: Failed to remove staging file %s: %v", f.Path, err)
			continue
		}
		logging.Log.Infof("Housekeeping: Removed staging file of run %s (%s).", f.RunID, formatBytes(freed))
		report.FilesRemoved++
		report.SpaceFreedBytes += freed
	}

	deps.Metrics.StagingSwept(report.FilesRemoved, report.SpaceFreedBytes)
	report.Message = fmt.Sprintf("Housekeeping complete for '%s'. %d staging files removed, freeing %s.",
		target, report.FilesRemoved, formatBytes(report.SpaceFreedBytes))
	return report, nil
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
