package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// BeginRun inserts a running entry. An empty run.ID is replaced with a new
// identifier, which is returned.
func (s *Store) BeginRun(ctx context.Context, run Run) (string, error) {
	if strings.TrimSpace(run.Command) == "" {
		return "", errors.New("run command is required")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, command, root, output, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Command,
		run.Root,
		nullableString(run.Output),
		StatusRunning,
		started.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// RecordFile appends a per-file outcome to a run.
func (s *Store) RecordFile(ctx context.Context, runID, path, verdict, reason string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_files (run_id, path, verdict, reason, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		runID,
		path,
		verdict,
		nullableString(reason),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// FinishRun marks a run succeeded (runErr == nil) or failed and stores its totals.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals, runErr error) error {
	status := StatusSucceeded
	var detail string
	if runErr != nil {
		status = StatusFailed
		detail = runErr.Error()
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, finished_at = ?, files = ?, candidates = ?, detail = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		totals.Files,
		totals.Candidates,
		nullableString(detail),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by identifier or unique identifier prefix. A missing
// run returns (nil, nil).
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2`, id, stripLikeWildcards(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return &run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// RunFiles returns the per-file outcomes of a run in recording order.
func (s *Store) RunFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, path, verdict, reason, recorded_at FROM run_files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var (
			rec      FileRecord
			reason   sql.NullString
			recorded string
		)
		if err := rows.Scan(&rec.RunID, &rec.Path, &rec.Verdict, &reason, &recorded); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		rec.Reason = reason.String
		rec.RecordedAt = parseTime(recorded)
		records = append(records, rec)
	}
	return records, rows.Err()
}
