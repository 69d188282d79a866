// Package history keeps a local audit log of generated reports in a
// SQLite database, one row per successful run. It is strictly
// best-effort bookkeeping: the report pipeline never fails because of it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const busyTimeoutMS = 5000

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		generated_at    TEXT    NOT NULL,
		period_start    TEXT    NOT NULL,
		period_end      TEXT    NOT NULL,
		job_count       INTEGER NOT NULL,
		execution_count INTEGER NOT NULL,
		recipient       TEXT    NOT NULL,
		output_path     TEXT    NOT NULL DEFAULT '',
		delivered       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_generated ON runs(generated_at)`,
}

// Run is one recorded report generation.
type Run struct {
	ID             int64
	GeneratedAt    time.Time
	PeriodStart    string
	PeriodEnd      string
	JobCount       int
	ExecutionCount int
	Recipient      string

	// OutputPath is empty when the report existed only transiently.
	OutputPath string
	Delivered  bool
}

// Store is a handle on the run-audit database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the audit database at path. The
// database uses WAL mode, a 5 s busy timeout, and a single connection
// (SQLite serialises writes). The schema is migrated automatically.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("history: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.TODO()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMS)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set busy_timeout: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: migrate schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Record inserts one run row.
func (s *Store) Record(ctx context.Context, run Run) error {
	delivered := 0
	if run.Delivered {
		delivered = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (generated_at, period_start, period_end, job_count, execution_count, recipient, output_path, delivered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.GeneratedAt.UTC().Format(time.RFC3339), run.PeriodStart, run.PeriodEnd,
		run.JobCount, run.ExecutionCount, run.Recipient, run.OutputPath, delivered,
	)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Recent returns the n most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, period_start, period_end, job_count, execution_count, recipient, output_path, delivered
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			generatedAt string
			delivered   int
		)
		if err := rows.Scan(&run.ID, &generatedAt, &run.PeriodStart, &run.PeriodEnd,
			&run.JobCount, &run.ExecutionCount, &run.Recipient, &run.OutputPath, &delivered); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("history: parse generated_at %q: %w", generatedAt, err)
		}
		run.Delivered = delivered != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list rows: %w", err)
	}

	return runs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
