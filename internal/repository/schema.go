// filepath: internal/repository/schema.go
package repository

import (
	"context"
	"fmt"
	"trialdb/internal/db/migrations"
	"trialdb/internal/models"

	"github.com/pressly/goose/v3"
)

// requiredTables are the entity tables every query depends on.
var requiredTables = []string{"subjects", "samples", "cell_counts"}

func configureGoose() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// EnsureSchema creates the entity tables and their lookup indexes if they are
// not present yet. Calling it on an up-to-date store is a no-op.
func (s *Repository) EnsureSchema() error {
	if err := configureGoose(); err != nil {
		return err
	}
	// The migrations directory is embedded, so "." is the root of the FS.
	if err := goose.Up(s.DB, "."); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied schema version (0 on a fresh store).
func (s *Repository) SchemaVersion() (int64, error) {
	if err := configureGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.DB)
}

// SchemaStatus logs the state of each schema migration.
func (s *Repository) SchemaStatus() error {
	if err := configureGoose(); err != nil {
		return err
	}
	return goose.Status(s.DB, ".")
}

// ValidateSchema checks that every entity table exists.
func (s *Repository) ValidateSchema() error {
	for _, table := range requiredTables {
		var name string
		err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			return fmt.Errorf("%w: table %s is missing", ErrStoreNotInitialized, table)
		}
	}
	return nil
}

// CheckIntegrity reports dangling references and samples whose cell counts
// do not cover the fixed population set exactly once.
func (s *Repository) CheckIntegrity(ctx context.Context) ([]models.IntegrityIssue, error) {
	issues := make([]models.IntegrityIssue, 0)

	rows, err := s.DB.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return nil, fmt.Errorf("foreign key check failed: %w", err)
	}
	for rows.Next() {
		var table, parent string
		var rowID, fkID interface{}
		if err := rows.Scan(&table, &rowID, &parent, &fkID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan foreign key violation: %w", err)
		}
		issues = append(issues, models.IntegrityIssue{
			Table:  table,
			Key:    fmt.Sprintf("rowid=%v", rowID),
			Reason: fmt.Sprintf("missing parent row in %s", parent),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query, args, err := s.Builder.
		Select("sa.sample", "COUNT(cc.id)", "COUNT(DISTINCT cc.population)").
		From("samples sa").
		LeftJoin("cell_counts cc ON cc.sample = sa.sample").
		GroupBy("sa.sample").
		Having("COUNT(cc.id) <> ? OR COUNT(DISTINCT cc.population) <> ?", len(models.AllPopulations), len(models.AllPopulations)).
		OrderBy("sa.sample").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build completeness query: %w", err)
	}
	rows, err = s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("completeness check failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sample string
		var total, distinct int
		if err := rows.Scan(&sample, &total, &distinct); err != nil {
			return nil, fmt.Errorf("failed to scan completeness row: %w", err)
		}
		issues = append(issues, models.IntegrityIssue{
			Table:  "cell_counts",
			Key:    sample,
			Reason: fmt.Sprintf("expected %d populations, found %d rows covering %d", len(models.AllPopulations), total, distinct),
		})
	}
	return issues, rows.Err()
}
