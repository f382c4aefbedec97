// filepath: internal/repository/query_repo.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"trialdb/internal/logging"
	"trialdb/internal/models"

	"github.com/Masterminds/squirrel"
)

// sampleTotal is the per-sample total across all populations, evaluated after filtering.
// Filters only ever select whole samples, so every partition keeps its five rows.
const sampleTotal = "SUM(cc.count) OVER (PARTITION BY cc.sample) AS total_count"

// CountRow is a raw cell count joined with its sample total.
type CountRow struct {
	Sample     string
	TotalCount int64
	Population models.Population
	Count      int64
}

// CohortCountRow is a raw cell count joined with subject and sample attributes.
type CohortCountRow struct {
	CountRow
	Subject                string
	Response               *string
	TimeFromTreatmentStart int64
}

// cohortPredicate selects samples of subjects matching the fixed cohort filter.
func cohortPredicate(f models.CohortFilter) squirrel.Eq {
	return squirrel.Eq{
		"sub.condition":  f.Condition,
		"sub.treatment":  f.Treatment,
		"sa.sample_type": f.SampleType,
	}
}

// GetCellCounts returns every cell count with its sample total, ordered by sample and population.
func (s *Repository) GetCellCounts(ctx context.Context) ([]CountRow, error) {
	query, args, err := s.Builder.
		Select("cc.sample", sampleTotal, "cc.population", "cc.count").
		From("cell_counts cc").
		OrderBy("cc.sample", "cc.population").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build overview query: %w", err)
	}

	logging.Log.Debugf("Generated SQL for GetCellCounts: %s", query)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("Error executing GetCellCounts query: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]CountRow, 0)
	for rows.Next() {
		var r CountRow
		var population string
		if err := rows.Scan(&r.Sample, &r.TotalCount, &population, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan cell count: %w", err)
		}
		if r.Population, err = models.ParsePopulation(population); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		logging.Log.Errorf("Error during rows iteration: %v", err)
		return nil, err
	}
	return out, nil
}

// GetCohortCellCounts returns the cell counts of the samples matching the cohort
// filter, with the owning subject's response and the sample's time offset.
func (s *Repository) GetCohortCellCounts(ctx context.Context, f models.CohortFilter) ([]CohortCountRow, error) {
	query, args, err := s.Builder.
		Select(
			"cc.sample", sampleTotal, "cc.population", "cc.count",
			"sa.subject", "sub.response", "sa.time_from_treatment_start",
		).
		From("cell_counts cc").
		Join("samples sa ON cc.sample = sa.sample").
		Join("subjects sub ON sa.subject = sub.subject").
		Where(cohortPredicate(f)).
		OrderBy("cc.sample", "cc.population").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comparison query: %w", err)
	}

	logging.Log.Debugf("Generated SQL for GetCohortCellCounts: %s", query)
	logging.Log.Debugf("Arguments: %v", args)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("Error executing GetCohortCellCounts query: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]CohortCountRow, 0)
	for rows.Next() {
		var r CohortCountRow
		var population string
		var response sql.NullString
		if err := rows.Scan(&r.Sample, &r.TotalCount, &population, &r.Count, &r.Subject, &response, &r.TimeFromTreatmentStart); err != nil {
			return nil, fmt.Errorf("failed to scan cohort cell count: %w", err)
		}
		if r.Population, err = models.ParsePopulation(population); err != nil {
			return nil, err
		}
		if response.Valid {
			v := response.String
			r.Response = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		logging.Log.Errorf("Error during rows iteration: %v", err)
		return nil, err
	}
	return out, nil
}

// Subset grouping columns and how they are counted.
const (
	GroupProject  = "sub.project"
	GroupResponse = "sub.response"
	GroupSex      = "sub.sex"
)

// CountBaselineBy tabulates baseline samples of the cohort grouped by column.
// With distinctSubjects set, subjects contributing several samples are counted once.
// Rows are ordered by the grouping key; a NULL key is returned as "".
func (s *Repository) CountBaselineBy(ctx context.Context, f models.CohortFilter, column string, distinctSubjects bool) ([]models.GroupCount, error) {
	switch column {
	case GroupProject, GroupResponse, GroupSex:
	default:
		return nil, fmt.Errorf("invalid grouping column: %s", column)
	}

	counter := "COUNT(*)"
	if distinctSubjects {
		counter = "COUNT(DISTINCT sa.subject)"
	}

	query, args, err := s.Builder.
		Select(column, counter).
		From("samples sa").
		Join("subjects sub ON sa.subject = sub.subject").
		Where(cohortPredicate(f)).
		Where(squirrel.Eq{"sa.time_from_treatment_start": 0}).
		GroupBy(column).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subset query: %w", err)
	}

	logging.Log.Debugf("Generated SQL for CountBaselineBy: %s", query)
	logging.Log.Debugf("Arguments: %v", args)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("Error executing CountBaselineBy query: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]models.GroupCount, 0)
	for rows.Next() {
		var key sql.NullString
		var gc models.GroupCount
		if err := rows.Scan(&key, &gc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan group count: %w", err)
		}
		gc.Key = key.String
		out = append(out, gc)
	}
	return out, rows.Err()
}

// GetLatestLoadRun returns the most recent load record, or nil if none exists.
func (s *Repository) GetLatestLoadRun(ctx context.Context) (*models.LoadRun, error) {
	query, args, err := s.Builder.
		Select("run_id", "source", "started_at", "finished_at", "subjects", "samples", "cell_counts").
		From("load_runs").
		OrderBy("finished_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load run query: %w", err)
	}

	var run models.LoadRun
	var started, finished string
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(
		&run.RunID, &run.Source, &started, &finished, &run.Subjects, &run.Samples, &run.CellCounts,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read load run: %w", err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", started, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("invalid finished_at %q: %w", finished, err)
	}
	return &run, nil
}
