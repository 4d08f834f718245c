package market

import (
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dailySeries builds n consecutive daily candles starting at start with
// distinguishable prices: open=i+1, close=i+1.5, high=i+2, low=i, volume=100*(i+1).
func dailySeries(start time.Time, n int) []Candle {
	out := make([]Candle, n)
	for i := range out {
		f := float64(i)
		out[i] = Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   f + 1,
			High:   f + 2,
			Low:    f,
			Close:  f + 1.5,
			Volume: 100 * (f + 1),
		}
	}
	return out
}

func sumVolume(cs []Candle) float64 {
	var v float64
	for _, c := range cs {
		v += c.Volume
	}
	return v
}
