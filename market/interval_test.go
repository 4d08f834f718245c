package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockview/internal/apperr"
)

func TestParseInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Interval
		wantErr bool
	}{
		{"", Daily, false},
		{"1d", Daily, false},
		{"1w", Weekly, false},
		{" 1m ", Monthly, false},
		{"1y", Yearly, false},
		{"1x", "", true},
		{"1D", "", true},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.InvalidInput))
				assert.Contains(t, err.Error(), "invalid interval")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		iv   Interval
		in   time.Time
		want time.Time
	}{
		{"daily drops time of day", Daily, time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC), day(2024, 3, 5)},
		{"weekly monday stays", Weekly, day(2024, 1, 1), day(2024, 1, 1)},
		{"weekly sunday goes back", Weekly, day(2024, 1, 7), day(2024, 1, 1)},
		{"weekly wednesday", Weekly, day(2024, 1, 10), day(2024, 1, 8)},
		{"weekly crosses year", Weekly, day(2025, 1, 2), day(2024, 12, 30)},
		{"monthly leap february", Monthly, day(2024, 2, 10), day(2024, 2, 29)},
		{"monthly december", Monthly, day(2023, 12, 1), day(2023, 12, 31)},
		{"monthly already month end", Monthly, day(2024, 4, 30), day(2024, 4, 30)},
		{"yearly", Yearly, day(2024, 6, 15), day(2024, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.iv.Anchor(tt.in))
		})
	}
}
