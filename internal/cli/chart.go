package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/chart"
	"github.com/rustyeddy/stockview/store"
)

func newChartCmd(rc *RootConfig) *cobra.Command {
	var (
		symbol string
		out    string
		years  int
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a monthly candlestick chart of the last years of a series",
		Long: `Chart loads a stored series, keeps the last --years years, resamples it
to monthly candles and writes a candlestick chart. The output format follows
the file extension (.png, .svg, .pdf).

Example:
  stockview chart --symbol NVDA --out nvda.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Config
			if symbol == "" {
				symbol = cfg.Fetch.Symbol
			}
			if years <= 0 {
				years = cfg.Chart.Years
			}
			if width <= 0 {
				width = cfg.Chart.Width
			}
			if height <= 0 {
				height = cfg.Chart.Height
			}
			if out == "" {
				out = symbol + "_monthly_candles.png"
			}

			st, err := store.New(cfg.Data.Dir)
			if err != nil {
				return err
			}
			candles, err := st.Load(symbol)
			if err != nil {
				return err
			}

			c, err := chart.New(symbol, candles, time.Now(), years)
			if err != nil {
				return err
			}
			if err := c.Save(out, width, height); err != nil {
				return err
			}

			rc.Logger.Debug("chart rendered", "symbol", symbol, "buckets", len(c.Candles), "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d monthly candles to %s\n", len(c.Candles), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default {SYMBOL}_monthly_candles.png)")
	cmd.Flags().IntVar(&years, "years", 0, "How many years back to chart (default from config, 3)")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Image height in pixels")

	return cmd
}
