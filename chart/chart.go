// Package chart renders a monthly candlestick chart of a symbol's recent
// history with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

const (
	DefaultYears  = 3
	DefaultWidth  = 1200
	DefaultHeight = 600

	// screenDPI converts pixel sizes into vg lengths.
	screenDPI = 96
)

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true, "eps": true,
}

// Chart holds the monthly buckets to draw for one symbol.
type Chart struct {
	Symbol  string
	Years   int
	Candles []market.Candle
}

// Window keeps the candles dated on or after the calendar date years before
// now.
func Window(daily []market.Candle, now time.Time, years int) []market.Candle {
	cutoff := market.Date(now).AddDate(-years, 0, 0)
	return market.Filter(daily, market.Range{Start: cutoff})
}

// New builds a chart of the last years of a sorted daily series, resampled
// to monthly candles.
func New(symbol string, daily []market.Candle, now time.Time, years int) (*Chart, error) {
	if years <= 0 {
		years = DefaultYears
	}
	monthly := market.Resample(Window(daily, now, years), market.Monthly)
	if len(monthly) == 0 {
		return nil, apperr.New(apperr.DataError, "no data for %s in the last %d years", symbol, years)
	}
	return &Chart{Symbol: symbol, Years: years, Candles: monthly}, nil
}

func (c *Chart) Title() string {
	return fmt.Sprintf("%s Stock Price Distribution (Monthly, Last %d Years)", c.Symbol, c.Years)
}

// Labels returns the YYYY-MM label of each bucket.
func (c *Chart) Labels() []string {
	out := make([]string, len(c.Candles))
	for i, cd := range c.Candles {
		out[i] = cd.Time.Format("2006-01")
	}
	return out
}

// Plot assembles the gonum plot.
func (c *Chart) Plot() *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title()
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Price in USD"

	p.Add(plotter.NewGrid())
	p.Add(NewCandlesticks(c.Candles))

	p.NominalX(c.Labels()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return p
}

// WriteTo renders the chart in format (png, svg, pdf, ...) with a size in
// pixels.
func (c *Chart) WriteTo(w io.Writer, format string, width, height int) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if !formats[format] {
		return apperr.New(apperr.InvalidInput, "unsupported chart format %q", format)
	}

	wt, err := c.Plot().WriterTo(pixels(width, DefaultWidth), pixels(height, DefaultHeight), format)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Save writes the chart to path; the format follows the file extension.
func (c *Chart) Save(path string, width, height int) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !formats[ext] {
		return apperr.New(apperr.InvalidInput, "unsupported chart format %q for %s", ext, path)
	}
	if err := c.Plot().Save(pixels(width, DefaultWidth), pixels(height, DefaultHeight), path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// pixels converts n to a vg length, using def when n is not positive.
func pixels(n, def int) vg.Length {
	if n <= 0 {
		n = def
	}
	return vg.Length(n) * vg.Inch / screenDPI
}

var (
	upColor   = color.RGBA{R: 0x2e, G: 0x9d, B: 0x4f, A: 0xff}
	downColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)
