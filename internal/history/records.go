package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is one persisted ck-cmd invocation.
type Record struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Operation  string    `json:"operation,omitempty"`
	Command    string    `json:"command"`
	WorkDir    string    `json:"work_dir,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	DLC        int       `json:"dlc"`
	ExitCode   int       `json:"exit_code"`
	OK         bool      `json:"ok"`
	Stderr     string    `json:"stderr,omitempty"`
	LogPath    string    `json:"log_path,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is the wall time of the invocation.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunSummary aggregates the records of one batch run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Total      int       `json:"total"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

const recordColumns = "id, run_id, operation, command, work_dir, actor, dlc, exit_code, ok, stderr, log_path, started_at, finished_at"

// Add inserts rec and assigns its ID.
func (s *Store) Add(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if strings.TrimSpace(rec.RunID) == "" {
		return errors.New("record run id required")
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = rec.StartedAt
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO invocations (
            run_id, operation, command, work_dir, actor, dlc,
            exit_code, ok, stderr, log_path, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		nullableString(rec.Operation),
		rec.Command,
		nullableString(rec.WorkDir),
		nullableString(rec.Actor),
		rec.DLC,
		rec.ExitCode,
		boolToInt(rec.OK),
		nullableString(rec.Stderr),
		nullableString(rec.LogPath),
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// List returns the most recent records, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM invocations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ensureContext(ctx), query, args...)
}

// ListRun returns the records of one run in execution order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Record, error) {
	return s.query(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM invocations WHERE run_id = ? ORDER BY id`, runID)
}

// Get returns one record by ID. The bool is false when no such record exists.
func (s *Store) Get(ctx context.Context, id int64) (Record, bool, error) {
	records, err := s.query(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM invocations WHERE id = ?`, id)
	if err != nil || len(records) == 0 {
		return Record{}, false, err
	}
	return records[0], true, nil
}

// Failures returns the most recent failed records, newest first.
func (s *Store) Failures(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM invocations WHERE ok = 0 ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ensureContext(ctx), query, args...)
}

// Runs summarizes the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	ctx = ensureContext(ctx)
	query := `SELECT run_id, COUNT(1), SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END),
            MIN(started_at), MAX(finished_at), MAX(id) AS last_id
        FROM invocations GROUP BY run_id ORDER BY last_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			summary     RunSummary
			startedRaw  string
			finishedRaw string
			lastID      int64
		)
		if err := rows.Scan(&summary.RunID, &summary.Total, &summary.Failed, &startedRaw, &finishedRaw, &lastID); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := parseTimeString(startedRaw); err == nil {
			summary.StartedAt = t
		}
		if t, err := parseTimeString(finishedRaw); err == nil {
			summary.FinishedAt = t
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}

// Prune deletes records started before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM invocations WHERE started_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune records: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec         Record
		operation   sql.NullString
		workDir     sql.NullString
		actor       sql.NullString
		ok          int
		stderr      sql.NullString
		logPath     sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.RunID,
		&operation,
		&rec.Command,
		&workDir,
		&actor,
		&rec.DLC,
		&rec.ExitCode,
		&ok,
		&stderr,
		&logPath,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Record{}, err
	}
	rec.Operation = operation.String
	rec.WorkDir = workDir.String
	rec.Actor = actor.String
	rec.OK = ok != 0
	rec.Stderr = stderr.String
	rec.LogPath = logPath.String
	if t, err := parseTimeString(startedRaw); err == nil {
		rec.StartedAt = t
	}
	if t, err := parseTimeString(finishedRaw); err == nil {
		rec.FinishedAt = t
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
