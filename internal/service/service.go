// Package service answers stock queries: load a symbol's series, resample it
// to the requested interval and cut it to the requested date range.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

// SeriesStore is the read side of store.Store.
type SeriesStore interface {
	Path(symbol string) (string, error)
	Load(symbol string) ([]market.Candle, error)
	Symbols() ([]string, error)
}

// Query holds the raw request parameters. Empty strings mean "not given".
type Query struct {
	Symbol    string
	Interval  string
	StartDate string
	EndDate   string
}

type StockService struct {
	store SeriesStore
	log   *slog.Logger
}

func New(store SeriesStore, log *slog.Logger) *StockService {
	if log == nil {
		log = slog.Default()
	}
	return &StockService{store: store, log: log}
}

// Query validates q and returns the matching candles in ascending date order.
// All parameter errors are reported before the series file is touched.
func (s *StockService) Query(ctx context.Context, q Query) ([]market.Candle, error) {
	iv, err := market.ParseInterval(q.Interval)
	if err != nil {
		return nil, err
	}

	var r market.Range
	if r.Start, err = parseDateParam("start_date", q.StartDate); err != nil {
		return nil, err
	}
	if r.End, err = parseDateParam("end_date", q.EndDate); err != nil {
		return nil, err
	}

	path, err := s.store.Path(q.Symbol)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candles, err := s.store.Load(q.Symbol)
	if err != nil {
		s.log.DebugContext(ctx, "series load failed", "symbol", q.Symbol, "path", path, "err", err)
		return nil, err
	}
	s.log.DebugContext(ctx, "series loaded",
		"symbol", q.Symbol,
		"path", path,
		"rows", len(candles),
		"first", firstDate(candles),
		"last", lastDate(candles),
	)

	out := market.Filter(market.Resample(candles, iv), r)
	s.log.DebugContext(ctx, "query answered",
		"symbol", q.Symbol,
		"interval", iv.String(),
		"start_date", q.StartDate,
		"end_date", q.EndDate,
		"rows", len(out),
	)
	return out, nil
}

// Symbols lists the symbols that can be queried.
func (s *StockService) Symbols() ([]string, error) {
	return s.store.Symbols()
}

func parseDateParam(name, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := market.ParseDate(v)
	if err != nil {
		return time.Time{}, apperr.New(apperr.InvalidInput, "invalid %s %q: expected YYYY-MM-DD", name, v)
	}
	return t, nil
}

func firstDate(cs []market.Candle) string {
	if len(cs) == 0 {
		return ""
	}
	return cs[0].Time.Format(market.DateLayout)
}

func lastDate(cs []market.Candle) string {
	if len(cs) == 0 {
		return ""
	}
	return cs[len(cs)-1].Time.Format(market.DateLayout)
}
