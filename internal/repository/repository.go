// filepath: internal/repository/repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"trialdb/internal/config"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var (
	// ErrStoreNotFound is returned when the store file does not exist.
	ErrStoreNotFound = errors.New("store not found")
	// ErrStoreNotInitialized is returned when the store exists but its tables are missing.
	ErrStoreNotInitialized = errors.New("store schema not initialized")
)

// Repository wraps the SQLite store holding subjects, samples and cell counts.
type Repository struct {
	DB      *sql.DB
	Path    string
	Builder squirrel.StatementBuilderType // SQL Query Builder
}

// NewRepository opens (and creates if needed) the store configured in cfg.
func NewRepository(cfg *config.Config) (*Repository, error) {
	return Open(cfg.Database.Path)
}

// Open opens the SQLite file at path, creating it when it does not exist.
// Foreign keys are enforced on every connection.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Repository{
		DB:      db,
		Path:    path,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// OpenExisting opens a store that a previous load created. It never creates
// an empty file and fails with ErrStoreNotFound or ErrStoreNotInitialized instead.
func OpenExisting(path string) (*Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("stat store %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrStoreNotFound, path)
	}

	repo, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := repo.ValidateSchema(); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database handle.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// BeginTx starts a transaction for the bulk insert methods of Tx.
func (s *Repository) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, builder: s.Builder, stmts: make(map[string]*sql.Stmt)}, nil
}

// TableCounts holds the row count of each entity table.
type TableCounts struct {
	Subjects   int64 `json:"subjects"`
	Samples    int64 `json:"samples"`
	CellCounts int64 `json:"cell_counts"`
}

// CountRows returns the number of rows in each entity table.
func (s *Repository) CountRows(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	targets := []struct {
		table string
		dest  *int64
	}{
		{"subjects", &counts.Subjects},
		{"samples", &counts.Samples},
		{"cell_counts", &counts.CellCounts},
	}
	for _, t := range targets {
		query, args, err := s.Builder.Select("COUNT(*)").From(t.table).ToSql()
		if err != nil {
			return counts, fmt.Errorf("failed to build count query: %w", err)
		}
		if err := s.DB.QueryRowContext(ctx, query, args...).Scan(t.dest); err != nil {
			return counts, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
	}
	return counts, nil
}
