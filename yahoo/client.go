// Package yahoo fetches daily price history from Yahoo Finance through
// finance-go. It needs no API key.
package yahoo

import (
	"context"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

const Name = "yahoo"

// iterator is the subset of *chart.Iter the client consumes.
type iterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

type Client struct {
	// Since bounds how far back the request goes. Zero means from 1970.
	Since time.Time

	chart func(*chart.Params) iterator
	now   func() time.Time
}

func NewClient() *Client {
	return &Client{
		chart: func(p *chart.Params) iterator { return chart.Get(p) },
		now:   time.Now,
	}
}

func (c *Client) Name() string { return Name }

// DailyHistory pulls daily bars for symbol from Since to now. The context is
// only checked between bars; finance-go has no request-level cancellation.
func (c *Client) DailyHistory(ctx context.Context, symbol string) (*market.History, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperr.New(apperr.InvalidInput, "yahoo: missing symbol")
	}

	start := c.Since
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	end := c.now().UTC()

	iter := c.chart(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	h := &market.History{Symbol: symbol, Source: Name}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, apperr.Wrap(apperr.UpstreamError, err, "yahoo: %s", symbol)
		}
		cd, ok := BarToCandle(iter.Bar())
		if !ok {
			continue
		}
		if n := len(h.Candles); n > 0 && !h.Candles[n-1].Time.Before(cd.Time) {
			continue
		}
		h.Candles = append(h.Candles, cd)
	}
	if err := iter.Err(); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamError, err, "yahoo: history for %s", symbol)
	}
	if len(h.Candles) == 0 {
		return nil, apperr.New(apperr.UpstreamError, "yahoo: no data returned for %s", symbol)
	}
	h.LastRefreshed = h.Candles[len(h.Candles)-1].Time
	return h, nil
}

// BarToCandle converts a chart bar. Bars with no prices (holidays, halted
// sessions) report ok=false.
func BarToCandle(b *finance.ChartBar) (market.Candle, bool) {
	if b == nil {
		return market.Candle{}, false
	}
	if b.Open.IsZero() && b.High.IsZero() && b.Low.IsZero() && b.Close.IsZero() {
		return market.Candle{}, false
	}
	return market.Candle{
		Time:   market.Date(time.Unix(int64(b.Timestamp), 0).UTC()),
		Open:   float(b.Open),
		High:   float(b.High),
		Low:    float(b.Low),
		Close:  float(b.Close),
		Volume: float64(b.Volume),
	}, true
}

func float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
