// Package manifest records pipeline runs and per-subject outcomes in a
// SQLite file under the output root, so `brainprep report` can answer which
// subjects failed and why after the console scrolled away.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// FileName of the manifest database under the output root.
const FileName = "manifest.db"

// Store manages manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database and applies the
// schema.
func Open(outputRoot string) (*Store, error) {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output root: %w", err)
	}

	dbPath := filepath.Join(outputRoot, FileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    started_at   TEXT NOT NULL,
    finished_at  TEXT,
    data_root    TEXT NOT NULL,
    release      TEXT NOT NULL,
    resolved     INTEGER NOT NULL DEFAULT 0,
    label_only   INTEGER NOT NULL DEFAULT 0,
    disk_only    INTEGER NOT NULL DEFAULT 0,
    skipped_rows INTEGER NOT NULL DEFAULT 0,
    copy_errors  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS run_subjects (
    run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    subject_id TEXT NOT NULL,
    group_code TEXT NOT NULL,
    outcome    TEXT NOT NULL,
    detail     TEXT,
    PRIMARY KEY (run_id, subject_id, outcome)
);
CREATE INDEX IF NOT EXISTS idx_run_subjects_run ON run_subjects(run_id);
`

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// BeginRun inserts a new run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, dataRoot, release string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, data_root, release) VALUES (?, ?, ?, ?)`,
		id, now, dataRoot, release,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordSubject stores one subject outcome for a run.
func (s *Store) RecordSubject(ctx context.Context, outcome SubjectOutcome) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO run_subjects (run_id, subject_id, group_code, outcome, detail)
         VALUES (?, ?, ?, ?, ?)`,
		outcome.RunID, outcome.Subject, outcome.Group, string(outcome.Outcome), nullableString(outcome.Detail),
	)
	if err != nil {
		return fmt.Errorf("record subject %s: %w", outcome.Subject, err)
	}
	return nil
}

// FinishRun stamps the run's end time and summary counts.
func (s *Store) FinishRun(ctx context.Context, runID string, counts Counts) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, resolved = ?, label_only = ?, disk_only = ?,
            skipped_rows = ?, copy_errors = ? WHERE id = ?`,
		now, counts.Resolved, counts.LabelOnly, counts.DiskOnly,
		counts.SkippedRows, counts.CopyErrors, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, data_root, release,
            resolved, label_only, disk_only, skipped_rows, copy_errors
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.DataRoot, &run.Release,
			&run.Resolved, &run.LabelOnly, &run.DiskOnly, &run.SkippedRows, &run.CopyErrors,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			run.Finished = true
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunSubjects lists a run's subject outcomes. With problemsOnly, successful
// copies are filtered out.
func (s *Store) RunSubjects(ctx context.Context, runID string, problemsOnly bool) ([]SubjectOutcome, error) {
	query := `SELECT run_id, subject_id, group_code, outcome, detail
        FROM run_subjects WHERE run_id = ?`
	if problemsOnly {
		query += ` AND outcome != 'copied'`
	}
	query += ` ORDER BY subject_id`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run subjects: %w", err)
	}
	defer rows.Close()

	var outcomes []SubjectOutcome
	for rows.Next() {
		var outcome SubjectOutcome
		var kind string
		var detail sql.NullString
		if err := rows.Scan(&outcome.RunID, &outcome.Subject, &outcome.Group, &kind, &detail); err != nil {
			return nil, fmt.Errorf("scan run subject: %w", err)
		}
		outcome.Outcome = Outcome(kind)
		outcome.Detail = detail.String
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// LatestRun returns the most recent run, or nil when the manifest is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
