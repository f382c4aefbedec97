// filepath: internal/repository/dbtx.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"trialdb/internal/models"

	"github.com/Masterminds/squirrel"
)

// Tx is a wrapper around *sql.Tx that provides the bulk insert operations of a load.
// Insert statements are prepared once per transaction and reused for every row.
type Tx struct {
	*sql.Tx
	builder squirrel.StatementBuilderType
	stmts   map[string]*sql.Stmt
}

var insertColumns = map[string][]string{
	"subjects":    {"subject", "project", "condition", "age", "sex", "treatment", "response"},
	"samples":     {"sample", "subject", "sample_type", "time_from_treatment_start"},
	"cell_counts": {"sample", "population", "count"},
	"load_runs":   {"run_id", "source", "started_at", "finished_at", "subjects", "samples", "cell_counts"},
}

// stmt returns the prepared INSERT statement for table.
func (tx *Tx) stmt(ctx context.Context, table string) (*sql.Stmt, error) {
	if st, ok := tx.stmts[table]; ok {
		return st, nil
	}
	cols, ok := insertColumns[table]
	if !ok {
		return nil, fmt.Errorf("no insert statement for table %s", table)
	}
	// Only the SQL text is used; the values are bound on each Exec.
	query, _, err := tx.builder.Insert(table).Columns(cols...).Values(make([]interface{}, len(cols))...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert for %s: %w", table, err)
	}
	st, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	tx.stmts[table] = st
	return st, nil
}

// InsertSubjectInTx inserts a subject row. A nil response is stored as NULL.
func (tx *Tx) InsertSubjectInTx(ctx context.Context, subj models.Subject) error {
	st, err := tx.stmt(ctx, "subjects")
	if err != nil {
		return err
	}
	var response sql.NullString
	if subj.Response != nil {
		response = sql.NullString{String: *subj.Response, Valid: true}
	}
	if _, err := st.ExecContext(ctx, subj.ID, subj.Project, subj.Condition, subj.Age, subj.Sex, subj.Treatment, response); err != nil {
		return fmt.Errorf("insert subject %s: %w", subj.ID, err)
	}
	return nil
}

// InsertSampleInTx inserts a sample row. Its subject must already exist.
func (tx *Tx) InsertSampleInTx(ctx context.Context, sample models.Sample) error {
	st, err := tx.stmt(ctx, "samples")
	if err != nil {
		return err
	}
	if _, err := st.ExecContext(ctx, sample.ID, sample.SubjectID, sample.SampleType, sample.TimeFromTreatmentStart); err != nil {
		return fmt.Errorf("insert sample %s: %w", sample.ID, err)
	}
	return nil
}

// InsertMetricsInTx inserts the cell count rows of one sample.
func (tx *Tx) InsertMetricsInTx(ctx context.Context, metrics []models.Metric) error {
	st, err := tx.stmt(ctx, "cell_counts")
	if err != nil {
		return err
	}
	for _, m := range metrics {
		if _, err := st.ExecContext(ctx, m.SampleID, string(m.Population), m.Count); err != nil {
			return fmt.Errorf("insert cell count %s/%s: %w", m.SampleID, m.Population, err)
		}
	}
	return nil
}

// InsertLoadRunInTx records a completed load.
func (tx *Tx) InsertLoadRunInTx(ctx context.Context, run models.LoadRun) error {
	st, err := tx.stmt(ctx, "load_runs")
	if err != nil {
		return err
	}
	_, err = st.ExecContext(ctx,
		run.RunID, run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Subjects, run.Samples, run.CellCounts,
	)
	if err != nil {
		return fmt.Errorf("insert load run %s: %w", run.RunID, err)
	}
	return nil
}
