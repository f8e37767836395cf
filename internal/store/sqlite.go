// Package store keeps the run registry: one row of metadata per pipeline
// run (year, error counters, artifact paths). The analysis data itself
// stays in flat files; only run history lives here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Registry records pipeline runs in a local SQLite database.
type Registry struct {
	db *sql.DB
}

// Open opens the registry database at the given path and configures WAL
// mode.
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Registry{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	year        INTEGER NOT NULL,
	report      TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
`

// Migrate creates the schema if needed.
func (r *Registry) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, migration); err != nil {
		return eris.Wrap(err, "store: migrate")
	}
	return nil
}

// SaveRun persists a finished run report. An empty ID is assigned a fresh
// UUID; the (possibly assigned) ID is written back to the report.
func (r *Registry) SaveRun(ctx context.Context, report *model.RunReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "store: marshal report")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (id, year, report, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`,
		report.ID, report.Year, string(payload),
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrap(err, "store: insert run")
	}
	return nil
}

// ListRuns returns up to limit recent runs, newest first. Limit ≤ 0 means
// no limit.
func (r *Registry) ListRuns(ctx context.Context, limit int) ([]model.RunReport, error) {
	query := `SELECT report FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var reports []model.RunReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		var report model.RunReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal report")
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// GetRun returns one run by ID.
func (r *Registry) GetRun(ctx context.Context, id string) (*model.RunReport, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("store: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get run")
	}
	var report model.RunReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal report")
	}
	return &report, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}
