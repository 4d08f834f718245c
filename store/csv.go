package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

// Header is the canonical column order written by WriteCSV.
var Header = []string{"date", "open", "high", "low", "close", "volume"}

var dateLayouts = []string{
	market.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ReadCSV parses a series. The first row must be a header; columns are found
// by name so provider-labelled headers like "1. open" are accepted.
// Rows are returned in file order.
func ReadCSV(r io.Reader) ([]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperr.New(apperr.DataError, "empty csv: missing header row")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.DataError, err, "read csv header")
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	out := []market.Candle{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the line.
			return nil, apperr.Wrap(apperr.DataError, err, "read csv")
		}
		// Physical line the row starts on.
		line, _ := cr.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		c, err := parseRow(row, idx)
		if err != nil {
			return nil, apperr.Wrap(apperr.DataError, err, "line %d", line)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteCSV writes candles with the canonical header.
func WriteCSV(w io.Writer, candles []market.Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range candles {
		row := []string{
			c.Time.Format(market.DateLayout),
			f(c.Open),
			f(c.High),
			f(c.Low),
			f(c.Close),
			f(c.Volume),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// NormalizeColumn lowercases a header cell and strips ordinal prefixes such
// as "1. " used by Alpha Vantage.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	if i := strings.Index(name, ". "); i > 0 {
		if _, err := strconv.Atoi(name[:i]); err == nil {
			name = strings.TrimSpace(name[i+2:])
		}
	}
	return name
}

func columnIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeColumn(h)
		if name == "timestamp" {
			name = "date"
		}
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	idx := make([]int, len(Header))
	for i, col := range Header {
		p, ok := pos[col]
		if !ok {
			return nil, apperr.New(apperr.DataError, "missing required column %q", col)
		}
		idx[i] = p
	}
	return idx, nil
}

func parseRow(row []string, idx []int) (market.Candle, error) {
	field := func(i int) (string, error) {
		if idx[i] >= len(row) {
			return "", fmt.Errorf("missing %s value", Header[i])
		}
		return strings.TrimSpace(row[idx[i]]), nil
	}

	ds, err := field(0)
	if err != nil {
		return market.Candle{}, err
	}
	t, err := parseDate(ds)
	if err != nil {
		return market.Candle{}, err
	}

	var nums [5]float64
	for i := range nums {
		s, err := field(i + 1)
		if err != nil {
			return market.Candle{}, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad %s %q", Header[i+1], s)
		}
		nums[i] = v
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

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return market.Date(t), nil
		}
	}
	return time.Time{}, errors.New("bad date " + strconv.Quote(s))
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
