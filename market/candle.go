package market

import "time"

// Candle represents one OHLCV row. Time is a calendar date at UTC midnight.
type Candle struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64
}

// History is a provider's answer for a single symbol: the daily
// candles in ascending order plus the metadata it reported.
type History struct {
	Symbol        string
	Source        string
	LastRefreshed time.Time
	TimeZone      string
	Candles       []Candle
}

// DateLayout is the wire and CSV format for calendar dates.
const DateLayout = "2006-01-02"

// Date returns the calendar date of t as UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
