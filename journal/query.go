package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/stockview/internal/apperr"
)

const runColumns = `run_id, symbol, source, path, started, finished, row_count, first_date, last_date, status, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.RunID,
		&r.Symbol,
		&r.Source,
		&r.Path,
		&r.Started,
		&r.Finished,
		&r.Rows,
		&r.FirstDate,
		&r.LastDate,
		&r.Status,
		&r.Error,
	)
	return r, err
}

// GetRun returns a single run by id.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM fetch_runs WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, apperr.New(apperr.NotFound, "run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. An empty symbol lists every
// symbol; limit <= 0 means no limit.
func (j *SQLite) ListRuns(ctx context.Context, symbol string, limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM fetch_runs`
	var args []any
	if symbol != "" {
		q += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	q += ` ORDER BY run_id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
