package market

import (
	"sort"
	"time"
)

// Range holds optional inclusive date bounds. A zero bound is unbounded.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Filter returns the contiguous part of a sorted series that falls inside r.
// The result shares the backing array with candles.
func Filter(candles []Candle, r Range) []Candle {
	lo, hi := 0, len(candles)
	if !r.Start.IsZero() {
		lo = sort.Search(len(candles), func(i int) bool {
			return !candles[i].Time.Before(r.Start)
		})
	}
	if !r.End.IsZero() {
		hi = sort.Search(len(candles), func(i int) bool {
			return candles[i].Time.After(r.End)
		})
	}
	if lo >= hi {
		return candles[:0:0]
	}
	return candles[lo:hi]
}
