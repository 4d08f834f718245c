package market

import (
	"strings"
	"time"

	"github.com/rustyeddy/stockview/internal/apperr"
)

// Interval is a resampling bucket size as it appears on the wire.
type Interval string

const (
	Daily   Interval = "1d"
	Weekly  Interval = "1w"
	Monthly Interval = "1m"
	Yearly  Interval = "1y"
)

// Intervals lists the supported values in ascending bucket size.
var Intervals = []Interval{Daily, Weekly, Monthly, Yearly}

var convertInterval = map[string]Interval{
	"1d": Daily,
	"1w": Weekly,
	"1m": Monthly,
	"1y": Yearly,
}

// ParseInterval maps a query value onto an Interval. The empty string is Daily.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Daily, nil
	}
	iv, ok := convertInterval[s]
	if !ok {
		return "", apperr.New(apperr.InvalidInput,
			"invalid interval %q: supported values are 1d, 1w, 1m, 1y", s)
	}
	return iv, nil
}

func (iv Interval) String() string { return string(iv) }

// Anchor returns the date that represents the bucket containing t:
// the Monday of its week, the last day of its month or December 31 of its year.
// Daily returns the calendar date itself.
func (iv Interval) Anchor(t time.Time) time.Time {
	d := Date(t)
	switch iv {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7 // days since Monday
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}
