package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun inserts r, replacing any earlier row with the same run id.
func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO fetch_runs
		(run_id, symbol, source, path, started, finished, row_count, first_date, last_date, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Symbol, r.Source, r.Path, r.Started.UTC(), r.Finished.UTC(),
		r.Rows, r.FirstDate.UTC(), r.LastDate.UTC(), r.Status, r.Error,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
