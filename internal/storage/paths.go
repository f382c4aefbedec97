// filepath: internal/storage/paths.go
// Package storage manages the files that make up a store on disk: the store
// itself, the staging copies written by a load, and their SQLite journals.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// stagingMarker separates the store path from the run id in a staging file name.
const stagingMarker = ".loading-"

// journalSuffix is appended by SQLite to the rollback journal of a database file.
const journalSuffix = "-journal"

// StagingPath returns the path of the staging file a load with runID writes
// before it is renamed over target. It lives next to target so that the
// rename stays on one filesystem.
func StagingPath(target, runID string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("invalid store path: empty")
	}
	if runID == "" || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run id: %q", runID)
	}
	return filepath.Clean(target) + stagingMarker + runID, nil
}

// JournalPath returns the rollback journal SQLite keeps next to path.
func JournalPath(path string) string {
	return path + journalSuffix
}

// stagingPattern is the glob matching every staging file (and journal) of target.
func stagingPattern(target string) string {
	return filepath.Clean(target) + stagingMarker + "*"
}

// runIDOf extracts the run id from a staging file name, or "" when name is not one.
func runIDOf(target, name string) string {
	prefix := filepath.Clean(target) + stagingMarker
	if !strings.HasPrefix(name, prefix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, prefix), journalSuffix)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return ""
	}
	return id
}
