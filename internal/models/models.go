// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"time"
)

// Response values used to split subjects into comparison groups.
const (
	ResponseYes = "yes"
	ResponseNo  = "no"
)

// Info represents general information about the service.
type Info struct {
	ServiceName string    `json:"service_name"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
	Database    string    `json:"database"`
	LastLoad    *LoadRun  `json:"last_load,omitempty"`
}

// Subject is a trial participant. Response is nil when no outcome was recorded.
type Subject struct {
	ID        string  `json:"subject"`
	Project   string  `json:"project"`
	Condition string  `json:"condition"`
	Age       int64   `json:"age"`
	Sex       string  `json:"sex"`
	Treatment string  `json:"treatment"`
	Response  *string `json:"response"`
}

// Sample is a specimen drawn from a subject at a time offset from treatment start.
type Sample struct {
	ID                     string `json:"sample"`
	SubjectID              string `json:"subject"`
	SampleType             string `json:"sample_type"`
	TimeFromTreatmentStart int64  `json:"time_from_treatment_start"`
}

// Metric is the raw cell count of one population within one sample.
type Metric struct {
	SampleID   string     `json:"sample"`
	Population Population `json:"population"`
	Count      int64      `json:"count"`
}

// SourceRecord is one flat row of the source export.
type SourceRecord struct {
	Line    int
	Subject Subject
	Sample  Sample
	Counts  map[Population]int64
}

// Metrics unpivots the record's count columns in AllPopulations order.
func (r SourceRecord) Metrics() []Metric {
	out := make([]Metric, 0, len(AllPopulations))
	for _, p := range AllPopulations {
		out = append(out, Metric{SampleID: r.Sample.ID, Population: p, Count: r.Counts[p]})
	}
	return out
}

// LoadRun describes one completed rebuild of the store.
type LoadRun struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Source     string    `json:"source" yaml:"source"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Subjects   int64     `json:"subjects" yaml:"subjects"`
	Samples    int64     `json:"samples" yaml:"samples"`
	CellCounts int64     `json:"cell_counts" yaml:"cell_counts"`
}

// LoadReport is returned by the loader after a successful run.
type LoadReport struct {
	LoadRun
	Database string        `json:"database" yaml:"database"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OverviewRow is the relative frequency of one population in one sample.
type OverviewRow struct {
	Sample     string     `json:"sample" yaml:"sample"`
	TotalCount int64      `json:"total_count" yaml:"total_count"`
	Population Population `json:"population" yaml:"population"`
	Count      int64      `json:"count" yaml:"count"`
	Percentage float64    `json:"percentage" yaml:"percentage"`
}

// ComparisonRow is one (sample, population) pair of the responder comparison.
type ComparisonRow struct {
	Sample                 string     `json:"sample" yaml:"sample"`
	Subject                string     `json:"subject" yaml:"subject"`
	Response               *string    `json:"response" yaml:"response"`
	TimeFromTreatmentStart int64      `json:"time_from_treatment_start" yaml:"time_from_treatment_start"`
	Population             Population `json:"population" yaml:"population"`
	Count                  int64      `json:"count" yaml:"count"`
	Percentage             float64    `json:"percentage" yaml:"percentage"`
}

// PopulationStat is the Mann-Whitney U outcome for one population.
// Statistic and PValue are nil when Error is set.
type PopulationStat struct {
	Population    Population `json:"population" yaml:"population"`
	Statistic     *float64   `json:"statistic" yaml:"statistic"`
	PValue        *float64   `json:"p_value" yaml:"p_value"`
	Significant   bool       `json:"significant" yaml:"significant"`
	Responders    int        `json:"responders" yaml:"responders"`
	NonResponders int        `json:"non_responders" yaml:"non_responders"`
	Error         string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// CohortFilter holds the fixed analytical filter parameters.
type CohortFilter struct {
	Condition  string `json:"condition" yaml:"condition"`
	Treatment  string `json:"treatment" yaml:"treatment"`
	SampleType string `json:"sample_type" yaml:"sample_type"`
}

// ComparisonResult bundles the row set and the per-population statistics.
type ComparisonResult struct {
	Filter CohortFilter     `json:"filter" yaml:"filter"`
	Alpha  float64          `json:"alpha" yaml:"alpha"`
	Rows   []ComparisonRow  `json:"rows" yaml:"rows"`
	Stats  []PopulationStat `json:"stats" yaml:"stats"`
}

// GroupCount is one line of a tabulation. Key is empty for NULL groups.
type GroupCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int64  `json:"count" yaml:"count"`
}

// SubsetBreakdown holds the baseline cohort tabulations.
type SubsetBreakdown struct {
	Filter         CohortFilter `json:"filter" yaml:"filter"`
	ProjectCounts  []GroupCount `json:"project_counts" yaml:"project_counts"`
	ResponseCounts []GroupCount `json:"response_counts" yaml:"response_counts"`
	SexCounts      []GroupCount `json:"sex_counts" yaml:"sex_counts"`
}

// IntegrityIssue describes one violation found by an integrity check.
type IntegrityIssue struct {
	Table  string `json:"table" yaml:"table"`
	Key    string `json:"key" yaml:"key"`
	Reason string `json:"reason" yaml:"reason"`
}

// HousekeepingReport summarizes one sweep of abandoned staging files.
type HousekeepingReport struct {
	Database        string   `json:"database" yaml:"database"`
	FilesRemoved    int      `json:"files_removed" yaml:"files_removed"`
	SpaceFreedBytes int64    `json:"space_freed_bytes" yaml:"space_freed_bytes"`
	Skipped         []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Message         string   `json:"message" yaml:"message"`
}
