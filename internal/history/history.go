// Package history records one row per backup or restore run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

const (
	OperationBackup  = "backup"
	OperationRestore = "restore"
)

// Run summarises a finished batch operation
type Run struct {
	Operation  string
	Target     string // Destination or source, empty for stdout
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Nop is used when no history database is configured
type Nop struct{}

func (Nop) Record(context.Context, Run) error { return nil }

const createTable = `CREATE TABLE IF NOT EXISTS nomadoctor_runs (
	id CHAR(36) NOT NULL PRIMARY KEY,
	operation VARCHAR(16) NOT NULL,
	target VARCHAR(1024) NOT NULL,
	succeeded INT NOT NULL,
	failed INT NOT NULL,
	started_at DATETIME(6) NOT NULL,
	finished_at DATETIME(6) NOT NULL
)`

const insertRun = `INSERT INTO nomadoctor_runs
	(id, operation, target, succeeded, failed, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// MySQL stores runs in the nomadoctor_runs table
type MySQL struct {
	db *sql.DB
}

// Open connects to the database and creates the runs table if needed
func Open(ctx context.Context, dsn string) (*MySQL, error) {
	normalized, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &MySQL{db: db}, nil
}

func (m *MySQL) Record(ctx context.Context, run Run) error {
	_, err := m.db.ExecContext(ctx, insertRun,
		uuid.NewString(),
		run.Operation,
		run.Target,
		run.Succeeded,
		run.Failed,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s run: %w", run.Operation, err)
	}
	return nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}

// normalizeDSN validates dsn and makes DATETIME columns scan into time.Time
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid history dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
