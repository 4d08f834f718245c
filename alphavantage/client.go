// Package alphavantage fetches daily price history from the Alpha Vantage API.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

const (
	// DefaultBaseURL is the public Alpha Vantage endpoint.
	DefaultBaseURL = "https://www.alphavantage.co"

	// Name identifies this provider in journals and config.
	Name = "alphavantage"
)

// OutputSize selects how much history TIME_SERIES_DAILY returns.
type OutputSize string

const (
	Compact OutputSize = "compact" // latest 100 points
	Full    OutputSize = "full"    // complete history
)

type Options struct {
	BaseURL    string
	APIKey     string
	OutputSize OutputSize
	Timeout    time.Duration

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	client     *resty.Client
	apiKey     string
	outputSize OutputSize
}

// NewClient validates opts and builds a client. A missing API key is a
// config error and no request is ever made.
func NewClient(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, apperr.New(apperr.ConfigError,
			"alphavantage: missing API key: set provider.api_key, ALPHA_VANTAGE_API_KEY or --api-key")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.OutputSize == "" {
		opts.OutputSize = Full
	}
	if opts.OutputSize != Full && opts.OutputSize != Compact {
		return nil, apperr.New(apperr.ConfigError, "alphavantage: unknown output size %q", opts.OutputSize)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	rc.SetTimeout(opts.Timeout)
	rc.SetHeader("Accept", "application/json")

	return &Client{client: rc, apiKey: key, outputSize: opts.OutputSize}, nil
}

func (c *Client) Name() string { return Name }

// DailyHistory requests TIME_SERIES_DAILY for symbol and returns the candles
// in ascending date order.
func (c *Client) DailyHistory(ctx context.Context, symbol string) (*market.History, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, apperr.New(apperr.InvalidInput, "alphavantage: missing symbol")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": string(c.outputSize),
			"datatype":   "json",
			"apikey":     c.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamError, err, "alphavantage: request %s", symbol)
	}
	if resp.StatusCode() != http.StatusOK {
		body := strings.TrimSpace(resp.String())
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, apperr.New(apperr.UpstreamError, "alphavantage http %d: %s", resp.StatusCode(), body)
	}

	h, err := ParseDaily(resp.Body())
	if err != nil {
		return nil, err
	}
	if h.Symbol == "" {
		h.Symbol = symbol
	}
	return h, nil
}

type ohlcv struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResp struct {
	Meta struct {
		Information   string `json:"1. Information"`
		Symbol        string `json:"2. Symbol"`
		LastRefreshed string `json:"3. Last Refreshed"`
		OutputSize    string `json:"4. Output Size"`
		TimeZone      string `json:"5. Time Zone"`
	} `json:"Meta Data"`
	Series map[string]ohlcv `json:"Time Series (Daily)"`

	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// ParseDaily decodes a TIME_SERIES_DAILY JSON document. API-level error
// payloads (bad symbol, rate limits, premium notices) become upstream errors.
func ParseDaily(body []byte) (*market.History, error) {
	var dr dailyResp
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamError, err, "alphavantage: decode response")
	}

	switch {
	case dr.ErrorMessage != "":
		return nil, apperr.New(apperr.UpstreamError, "alphavantage: %s", dr.ErrorMessage)
	case dr.Series == nil && dr.Note != "":
		return nil, apperr.New(apperr.UpstreamError, "alphavantage: %s", dr.Note)
	case dr.Series == nil && dr.Information != "":
		return nil, apperr.New(apperr.UpstreamError, "alphavantage: %s", dr.Information)
	case dr.Series == nil:
		return nil, apperr.New(apperr.UpstreamError, "alphavantage: response has no daily time series")
	}

	h := &market.History{
		Symbol:   dr.Meta.Symbol,
		Source:   Name,
		TimeZone: dr.Meta.TimeZone,
		Candles:  make([]market.Candle, 0, len(dr.Series)),
	}
	if dr.Meta.LastRefreshed != "" {
		if t, err := parseDay(dr.Meta.LastRefreshed); err == nil {
			h.LastRefreshed = t
		}
	}

	for ds, v := range dr.Series {
		t, err := parseDay(ds)
		if err != nil {
			return nil, apperr.Wrap(apperr.UpstreamError, err, "alphavantage: bad date %q", ds)
		}
		c, err := v.candle(t)
		if err != nil {
			return nil, apperr.Wrap(apperr.UpstreamError, err, "alphavantage: %s", ds)
		}
		h.Candles = append(h.Candles, c)
	}

	sort.Slice(h.Candles, func(i, j int) bool {
		return h.Candles[i].Time.Before(h.Candles[j].Time)
	})
	return h, nil
}

func (v ohlcv) candle(t time.Time) (market.Candle, error) {
	fields := []struct {
		name string
		raw  string
	}{
		{"open", v.Open}, {"high", v.High}, {"low", v.Low}, {"close", v.Close}, {"volume", v.Volume},
	}
	var nums [5]float64
	for i, fl := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.raw), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad %s %q", fl.name, fl.raw)
		}
		nums[i] = n
	}
	return market.Candle{
		Time:   t,
		Open:   nums[0],
		High:   nums[1],
		Low:    nums[2],
		Close:  nums[3],
		Volume: nums[4],
	}, nil
}

// parseDay accepts "2006-01-02" and "2006-01-02 15:04:05".
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(market.DateLayout) {
		s = s[:len(market.DateLayout)]
	}
	return market.ParseDate(s)
}
