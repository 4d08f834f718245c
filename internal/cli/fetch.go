package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/alphavantage"
	"github.com/rustyeddy/stockview/config"
	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/internal/fetch"
	"github.com/rustyeddy/stockview/journal"
	"github.com/rustyeddy/stockview/market"
	"github.com/rustyeddy/stockview/store"
	"github.com/rustyeddy/stockview/yahoo"
)

const tailRows = 5

func newFetchCmd(rc *RootConfig) *cobra.Command {
	var (
		symbol     string
		provider   string
		apiKey     string
		baseURL    string
		outputSize string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a symbol's full daily history and overwrite its CSV",
		Long: `Fetch requests the complete daily price history for one symbol from the
configured provider and writes it to {data-dir}/{SYMBOL}_stock_data.csv,
replacing any previous file. Every run is recorded in the journal.

Examples:
  stockview fetch --symbol NVDA
  ALPHA_VANTAGE_API_KEY=... stockview fetch --symbol AAPL
  stockview fetch --symbol MSFT --provider yahoo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Config
			if symbol != "" {
				cfg.Fetch.Symbol = symbol
			}
			if provider != "" {
				cfg.Provider.Name = provider
			}
			if apiKey != "" {
				cfg.Provider.APIKey = apiKey
			}
			if baseURL != "" {
				cfg.Provider.BaseURL = baseURL
			}
			if outputSize != "" {
				cfg.Provider.OutputSize = outputSize
			}

			p, err := newProvider(cfg.Provider)
			if err != nil {
				return err
			}

			st, err := store.New(cfg.Data.Dir)
			if err != nil {
				return err
			}

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer j.Close()

			res, err := fetch.NewRunner(p, st, j, rc.Logger).Run(cmd.Context(), cfg.Fetch.Symbol)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d rows to %s (run %s)\n", res.Run.Rows, res.Run.Path, res.Run.RunID)
			fmt.Fprintln(out)
			return printCandles(cmd, fetch.Tail(res.History.Candles, tailRows))
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol (default from config, NVDA)")
	cmd.Flags().StringVar(&provider, "provider", "", "Data provider: alphavantage|yahoo")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Alpha Vantage API key (or env ALPHA_VANTAGE_API_KEY)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override provider base URL (for testing)")
	cmd.Flags().StringVar(&outputSize, "output-size", "", "Alpha Vantage output size: compact|full")

	return cmd
}

// newProvider builds the configured provider. Credential problems surface
// here, before any network call.
func newProvider(pc config.ProviderConfig) (fetch.Provider, error) {
	timeout, err := pc.ParseTimeout()
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "provider.timeout")
	}

	switch pc.Name {
	case alphavantage.Name:
		return alphavantage.NewClient(alphavantage.Options{
			BaseURL:    pc.BaseURL,
			APIKey:     pc.APIKey,
			OutputSize: alphavantage.OutputSize(pc.OutputSize),
			Timeout:    timeout,
		})
	case yahoo.Name:
		return yahoo.NewClient(), nil
	default:
		return nil, apperr.New(apperr.ConfigError, "unknown provider %q", pc.Name)
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	if !jc.Enabled {
		return journal.Noop{}, nil
	}
	j, err := journal.NewSQLite(jc.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

func printCandles(cmd *cobra.Command, cs []market.Candle) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\topen\thigh\tlow\tclose\tvolume\t")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\t\n",
			c.Time.Format(market.DateLayout), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	return tw.Flush()
}
