// Package fetch runs the one-shot fetch-and-store flow: pull a symbol's daily
// history from a provider, replace its CSV series and journal the run.
package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/journal"
	"github.com/rustyeddy/stockview/market"
	"github.com/rustyeddy/stockview/pkg/id"
)

// Provider is a source of daily price history.
type Provider interface {
	Name() string
	DailyHistory(ctx context.Context, symbol string) (*market.History, error)
}

// SeriesWriter is the write side of store.Store.
type SeriesWriter interface {
	Save(symbol string, candles []market.Candle) (string, error)
}

type Runner struct {
	provider Provider
	store    SeriesWriter
	journal  journal.Journal
	log      *slog.Logger

	now   func() time.Time
	newID func(time.Time) string
}

func NewRunner(p Provider, s SeriesWriter, j journal.Journal, log *slog.Logger) *Runner {
	if j == nil {
		j = journal.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		provider: p,
		store:    s,
		journal:  j,
		log:      log,
		now:      time.Now,
		newID:    id.NewAt,
	}
}

// Result is what a successful run produced.
type Result struct {
	Run     journal.Run
	History *market.History
}

// Run fetches symbol and overwrites its series. Every attempt is journaled,
// failed ones included. Nothing is retried.
func (r *Runner) Run(ctx context.Context, symbol string) (*Result, error) {
	symbol = strings.TrimSpace(symbol)
	started := r.now().UTC()
	run := journal.Run{
		RunID:   r.newID(started),
		Symbol:  symbol,
		Source:  r.provider.Name(),
		Started: started,
	}

	if symbol == "" {
		return nil, r.fail(ctx, run, apperr.New(apperr.InvalidInput, "fetch: symbol is required"))
	}

	r.log.InfoContext(ctx, "fetching daily history", "run_id", run.RunID, "symbol", symbol, "source", run.Source)

	h, err := r.provider.DailyHistory(ctx, symbol)
	if err != nil {
		return nil, r.fail(ctx, run, err)
	}
	if len(h.Candles) == 0 {
		return nil, r.fail(ctx, run, apperr.New(apperr.UpstreamError, "%s returned no data for %s", run.Source, symbol))
	}

	path, err := r.store.Save(symbol, h.Candles)
	run.Path = path
	if err != nil {
		return nil, r.fail(ctx, run, err)
	}

	run.Finished = r.now().UTC()
	run.Rows = len(h.Candles)
	run.FirstDate = h.Candles[0].Time
	run.LastDate = h.Candles[len(h.Candles)-1].Time
	run.Status = journal.StatusOK
	r.record(ctx, run)

	r.log.InfoContext(ctx, "series saved",
		"run_id", run.RunID,
		"symbol", symbol,
		"path", path,
		"rows", run.Rows,
		"first", run.FirstDate.Format(market.DateLayout),
		"last", run.LastDate.Format(market.DateLayout),
	)
	return &Result{Run: run, History: h}, nil
}

func (r *Runner) fail(ctx context.Context, run journal.Run, err error) error {
	run.Finished = r.now().UTC()
	run.Status = journal.StatusFailed
	run.Error = err.Error()
	r.record(ctx, run)
	r.log.ErrorContext(ctx, "fetch failed", "run_id", run.RunID, "symbol", run.Symbol, "err", err)
	return err
}

// record never fails the run: the series on disk is what matters.
func (r *Runner) record(ctx context.Context, run journal.Run) {
	if err := r.journal.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		r.log.WarnContext(ctx, "journal record failed", "run_id", run.RunID, "err", err)
	}
}

// Tail returns the last n candles of cs, or all of them when there are fewer.
func Tail(cs []market.Candle, n int) []market.Candle {
	if n <= 0 {
		return nil
	}
	if len(cs) <= n {
		return cs
	}
	return cs[len(cs)-n:]
}
