// filepath: internal/services/services_test.go
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"trialdb/internal/config"
)

// newTestConfig returns a default configuration pointing at a store in a temp dir.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Database.Path = filepath.Join(t.TempDir(), "trialdb.db")
	return cfg
}

// sourceRow renders one source record in header column order.
func sourceRow(subject, condition, treatment, response, sample, sampleType string, tfs int, counts [5]int) string {
	return fmt.Sprintf("%s,prj1,%s,60,F,%s,%s,%s,%s,%d,%d,%d,%d,%d,%d",
		subject, condition, treatment, response, sample, sampleType, tfs,
		counts[0], counts[1], counts[2], counts[3], counts[4])
}

// writeSource writes a source file with the standard header and returns its path.
func writeSource(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cell-count.csv")
	content := sourceHeaderLine + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return path
}

// auditEvent is one recorded Auditor call.
type auditEvent struct {
	Action   string
	Resource string
	Details  map[string]interface{}
}

// recordingAuditor keeps every event in memory.
type recordingAuditor struct {
	mu     sync.Mutex
	events []auditEvent
}

func (a *recordingAuditor) Log(_ context.Context, action, _ string, resource string, details map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, auditEvent{Action: action, Resource: resource, Details: details})
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}
