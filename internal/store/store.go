// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline run history in SQLite.
// Implements: prd001-pipeline (R3);
//
//	docs/ARCHITECTURE § Run History.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-engine/pkg/types"
)

const dbFile = "history.db"

// Store manages the run history SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS spans (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			stage TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spans_run_id ON spans(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID         string
	Topic      string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Error      string
	Stages     int
}

// SpanRecord is one recorded stage execution.
type SpanRecord struct {
	RunID      string
	Stage      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Status     string
	Error      string
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.started_at, COALESCE(r.finished_at, ''), r.status, COALESCE(r.error, ''),
			(SELECT count(*) FROM spans WHERE run_id = r.id)
		 FROM runs r ORDER BY r.started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Topic, &started, &finished, &r.Status, &r.Error, &r.Stages); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListSpans returns the recorded stage executions for a run in order.
func (s *Store) ListSpans(ctx context.Context, runID string) ([]SpanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, stage, started_at, finished_at, duration_ms, status, COALESCE(error, '')
		 FROM spans WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying spans: %w", err)
	}
	defer rows.Close()

	var spans []SpanRecord
	for rows.Next() {
		var sp SpanRecord
		var started, finished string
		var durationMS int64
		if err := rows.Scan(&sp.RunID, &sp.Stage, &started, &finished, &durationMS, &sp.Status, &sp.Error); err != nil {
			return nil, fmt.Errorf("scanning span: %w", err)
		}
		sp.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		sp.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		sp.Duration = time.Duration(durationMS) * time.Millisecond
		spans = append(spans, sp)
	}
	return spans, rows.Err()
}

func (s *Store) startRun(runID, topic string, started time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO runs (id, topic, started_at, status) VALUES (?, ?, ?, 'running')`,
		runID, topic, started.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) recordSpan(runID, stage string, started, finished time.Time, spanErr error) error {
	status, errText := "ok", ""
	if spanErr != nil {
		status, errText = "error", spanErr.Error()
	}

	_, err := s.db.Exec(
		`INSERT INTO spans (run_id, stage, started_at, finished_at, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, stage,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
		finished.Sub(started).Milliseconds(),
		status, errText)
	if err != nil {
		return fmt.Errorf("inserting span: %w", err)
	}

	// The run row mirrors the latest span outcome; a failed stage is the
	// last one recorded, so the final update reflects the run result.
	_, err = s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		finished.UTC().Format(time.RFC3339Nano), status, errText, runID)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return nil
}
