// filepath: internal/storage/file.go
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StagingFile is a leftover staging file (or its journal) found next to a store.
type StagingFile struct {
	Path    string
	RunID   string
	Size    int64
	ModTime time.Time
}

// Local implements the staging file operations on the local filesystem.
type Local struct{}

// ListStaging finds the staging files and journals left next to target,
// oldest first.
func (Local) ListStaging(target string) ([]StagingFile, error) {
	return ListStaging(target)
}

// RemoveStaging deletes a staging file and its journal.
func (Local) RemoveStaging(path string) (int64, error) {
	return RemoveStaging(path)
}

// ListStaging finds the staging files and journals left next to target,
// oldest first.
func ListStaging(target string) ([]StagingFile, error) {
	matches, err := filepath.Glob(stagingPattern(target))
	if err != nil {
		return nil, fmt.Errorf("could not list staging files: %w", err)
	}

	files := make([]StagingFile, 0, len(matches))
	for _, m := range matches {
		id := runIDOf(target, m)
		if id == "" {
			continue
		}
		path := m
		if strings.HasSuffix(m, journalSuffix) {
			path = strings.TrimSuffix(m, journalSuffix)
			// A journal next to its staging file goes with it.
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		info, err := os.Stat(m)
		if err != nil {
			// Removed by a concurrent load between Glob and Stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("could not stat %s: %w", m, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, StagingFile{Path: path, RunID: id, Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ModTime.Before(files[j].ModTime) })
	return files, nil
}

// RemoveStaging deletes a staging file and its journal, returning the bytes freed.
// Files that are already gone are not an error.
func RemoveStaging(path string) (int64, error) {
	var freed int64
	var errs []error
	for _, p := range []string{path, JournalPath(path)} {
		info, err := os.Stat(p)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if err := os.Remove(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("could not remove %s: %w", p, err))
			}
			continue
		}
		freed += info.Size()
	}
	return freed, errors.Join(errs...)
}
