package journal

import (
	"context"

	"github.com/rustyeddy/stockview/internal/apperr"
)

// Noop is used when journaling is disabled.
type Noop struct{}

func (Noop) RecordRun(context.Context, Run) error { return nil }

func (Noop) GetRun(_ context.Context, runID string) (Run, error) {
	return Run{}, apperr.New(apperr.NotFound, "run %q not found: journal disabled", runID)
}

func (Noop) ListRuns(context.Context, string, int) ([]Run, error) { return nil, nil }

func (Noop) Close() error { return nil }
