package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

// daily returns one candle per day from start for n days, alternating up and
// down days with every seventh day flat.
func daily(start time.Time, n int) []market.Candle {
	out := make([]market.Candle, 0, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i%50)
		o, cl := base, base+1
		switch {
		case i%7 == 0:
			cl = o
		case i%2 == 0:
			o, cl = cl, o
		}
		out = append(out, market.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   o,
			High:   base + 2,
			Low:    base - 2,
			Close:  cl,
			Volume: 1000,
		})
	}
	return out
}

func TestWindowIsInclusiveCalendarCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
	series := daily(time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), 20)

	got := Window(series, now, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), got[0].Time)
	assert.Len(t, got, 15)
}

func TestNewResamplesMonthly(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	series := daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1628)

	c, err := New("NVDA", series, now, 3)
	require.NoError(t, err)

	// Jun 2021 (partial) through Jun 2024 (partial).
	require.Len(t, c.Candles, 37)
	assert.Equal(t, "2021-06", c.Labels()[0])
	assert.Equal(t, "2024-06", c.Labels()[36])
	assert.Equal(t, "NVDA Stock Price Distribution (Monthly, Last 3 Years)", c.Title())
}

func TestNewNoData(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	series := daily(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 30)

	_, err := New("OLD", series, now, 3)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.DataError))
}

func TestPlotSetup(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c, err := New("AAPL", daily(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400), now, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultYears, c.Years)

	p := c.Plot()
	assert.Equal(t, "AAPL Stock Price Distribution (Monthly, Last 3 Years)", p.Title.Text)
	assert.Equal(t, "Price in USD", p.Y.Label.Text)
	assert.NotZero(t, p.X.Tick.Label.Rotation)
}

func TestCandlesticksDataRange(t *testing.T) {
	t.Parallel()

	k := NewCandlesticks([]market.Candle{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 15, Low: 10, Close: 10},
		{Open: 10, High: 11, Low: 7, Close: 10},
	})

	xmin, xmax, ymin, ymax := k.DataRange()
	assert.Equal(t, -0.5, xmin)
	assert.Equal(t, 2.5, xmax)
	assert.Equal(t, 7.0, ymin)
	assert.Equal(t, 15.0, ymax)

	xmin, xmax, ymin, ymax = NewCandlesticks(nil).DataRange()
	assert.Zero(t, xmin+xmax+ymin+ymax)
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c, err := New("NVDA", daily(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 1300), now, 3)
	require.NoError(t, err)

	tests := []struct {
		format string
		prefix []byte
	}{
		{"png", []byte("\x89PNG")},
		{".svg", []byte("<?xml")},
		{"PDF", []byte("%PDF")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.WriteTo(&buf, tt.format, 640, 320))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), tt.prefix))
		})
	}

	err = c.WriteTo(&bytes.Buffer{}, "gif", 640, 320)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestWriteToDefaultSize(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c, err := New("NVDA", daily(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 120), now, 3)
	require.NoError(t, err)

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"explicit", 640, 320, 640, 320},
		{"default height", 800, 0, 800, DefaultHeight},
		{"default width", 0, 300, DefaultWidth, 300},
		{"both defaults", -1, 0, DefaultWidth, DefaultHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.WriteTo(&buf, "png", tt.width, tt.height))

			cfg, err := png.DecodeConfig(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c, err := New("NVDA", daily(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 500), now, 3)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "nvda.png")
	require.NoError(t, c.Save(path, DefaultWidth, DefaultHeight))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	bad := filepath.Join(dir, "nvda.bmp")
	err = c.Save(bad, DefaultWidth, DefaultHeight)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}
