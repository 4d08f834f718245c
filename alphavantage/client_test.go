package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

const dailyJSON = `{
  "Meta Data": {
    "1. Information": "Daily Prices (open, high, low, close) and Volumes",
    "2. Symbol": "NVDA",
    "3. Last Refreshed": "2024-01-03",
    "4. Output Size": "Full size",
    "5. Time Zone": "US/Eastern"
  },
  "Time Series (Daily)": {
    "2024-01-03": {"1. open": "47.49", "2. high": "48.18", "3. low": "47.32", "4. close": "47.57", "5. volume": "320896000"},
    "2024-01-02": {"1. open": "49.24", "2. high": "49.30", "3. low": "47.60", "4. close": "48.17", "5. volume": "411254000"}
  }
}`

func TestNewClientMissingKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Options{APIKey: "  "})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ConfigError))
	assert.Contains(t, err.Error(), "missing API key")

	_, err = NewClient(Options{APIKey: "k", OutputSize: "huge"})
	assert.True(t, apperr.Is(err, apperr.ConfigError))
}

func TestDailyHistory(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		require.Equal(t, "NVDA", q.Get("symbol"))
		require.Equal(t, "full", q.Get("outputsize"))
		require.Equal(t, "secret", q.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyJSON))
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alphavantage", c.Name())

	h, err := c.DailyHistory(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", h.Symbol)
	assert.Equal(t, Name, h.Source)
	assert.Equal(t, "US/Eastern", h.TimeZone)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), h.LastRefreshed)
	require.Len(t, h.Candles, 2)
	assert.Equal(t, market.Candle{
		Time:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:   49.24,
		High:   49.30,
		Low:    47.60,
		Close:  48.17,
		Volume: 411254000,
	}, h.Candles[0])
	assert.True(t, h.Candles[0].Time.Before(h.Candles[1].Time))
}

func TestDailyHistoryUpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http status", http.StatusServiceUnavailable, "down for maintenance", "http 503"},
		{"error message", http.StatusOK, `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"rate limit note", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage!"}`, "Thank you"},
		{"information", http.StatusOK, `{"Information": "premium endpoint"}`, "premium endpoint"},
		{"no series", http.StatusOK, `{}`, "no daily time series"},
		{"not json", http.StatusOK, `<html>`, "decode response"},
		{"bad number", http.StatusOK, `{"Time Series (Daily)": {"2024-01-02": {"1. open": "x"}}}`, `bad open "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
			require.NoError(t, err)

			_, err = c.DailyHistory(context.Background(), "NVDA")
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.UpstreamError), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDailyHistoryNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.DailyHistory(context.Background(), "NVDA")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDailyHistoryMissingSymbol(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Options{BaseURL: "http://127.0.0.1:0", APIKey: "k"})
	require.NoError(t, err)

	_, err = c.DailyHistory(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestParseDailyLastRefreshedWithTime(t *testing.T) {
	t.Parallel()

	body := `{"Meta Data": {"3. Last Refreshed": "2024-01-03 16:00:01"}, "Time Series (Daily)": {}}`
	h, err := ParseDaily([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), h.LastRefreshed)
	assert.Empty(t, h.Candles)
}
