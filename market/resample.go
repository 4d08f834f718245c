package market

// Resample aggregates a series that is already sorted ascending into one
// candle per non-empty bucket of iv. The input is not re-sorted and is never
// modified. Daily returns a copy of the input.
//
// Per bucket: open of the first record, close of the last, max high, min low
// and the sum of volumes. The bucket's Time is iv.Anchor of its records.
func Resample(candles []Candle, iv Interval) []Candle {
	out := make([]Candle, 0, len(candles))
	if iv == Daily || iv == "" {
		return append(out, candles...)
	}

	for _, c := range candles {
		anchor := iv.Anchor(c.Time)
		n := len(out)
		if n > 0 && out[n-1].Time.Equal(anchor) {
			b := &out[n-1]
			b.High = max(b.High, c.High)
			b.Low = min(b.Low, c.Low)
			b.Close = c.Close
			b.Volume += c.Volume
			continue
		}
		out = append(out, Candle{
			Time:   anchor,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return out
}
