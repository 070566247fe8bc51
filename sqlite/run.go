package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ keiba.RunService = (*RunService)(nil)

// RunService implements keiba.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun starts a run with a generated ID and start time.
func (s *RunService) CreateRun(ctx context.Context, run *keiba.Run) error {
	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, parsed, skipped, unchanged, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, formatTime(run.StartedAt), run.Parsed, run.Skipped, run.Unchanged, run.Failed)

	return err
}

// FinishRun stores the final counts and sets the finish time.
func (s *RunService) FinishRun(ctx context.Context, run *keiba.Run) error {
	finishedAt := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, parsed = ?, skipped = ?, unchanged = ?, failed = ?
		WHERE id = ?
	`, formatTime(finishedAt), run.Parsed, run.Skipped, run.Unchanged, run.Failed, run.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return keiba.Errorf(keiba.ENOTFOUND, "run not found")
	}

	run.FinishedAt = &finishedAt
	return nil
}

// FindRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*keiba.Run, error) {
	query := `
		SELECT id, started_at, finished_at, parsed, skipped, unchanged, failed
		FROM runs
		ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*keiba.Run{}
	for rows.Next() {
		var run keiba.Run
		var startedAt string
		var finishedAt sql.NullString

		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Parsed, &run.Skipped,
			&run.Unchanged, &run.Failed); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			t, err := parseRFC3339(finishedAt.String, "finished_at")
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
