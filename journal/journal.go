// Package journal keeps a history of fetch runs: what was pulled, from where,
// how many rows landed on disk and whether it worked.
package journal

import (
	"context"
	"time"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one execution of the fetch flow.
type Run struct {
	RunID    string
	Symbol   string
	Source   string
	Path     string
	Started  time.Time
	Finished time.Time

	Rows      int
	FirstDate time.Time
	LastDate  time.Time

	Status string
	Error  string
}

func (r Run) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

type Journal interface {
	RecordRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, symbol string, limit int) ([]Run, error)
	Close() error
}
