package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/api"
	"github.com/rustyeddy/stockview/internal/service"
	"github.com/rustyeddy/stockview/store"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var (
		addr          string
		allowedOrigin string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored series over HTTP",
		Long: `Serve exposes the CSV series in the data directory as JSON.

Endpoints:
  GET /stock/{symbol}?interval=1d|1w|1m|1y&start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
  GET /api/stock/{symbol}   (same as above)
  GET /stock                (list symbols)
  GET /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if allowedOrigin != "" {
				cfg.Server.AllowedOrigin = allowedOrigin
			}

			timeout, err := cfg.Server.ParseTimeout()
			if err != nil {
				return fmt.Errorf("server.request_timeout: %w", err)
			}

			st, err := store.New(cfg.Data.Dir)
			if err != nil {
				return err
			}

			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			h := api.NewAPIHandler(service.New(st, rc.Logger), rc.Logger, api.Options{
				AllowedOrigin:  cfg.Server.AllowedOrigin,
				RequestTimeout: timeout,
				Version:        Version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rc.Logger.Info("serving stock data", "data_dir", st.Dir(), "addr", cfg.Server.Addr)
			return h.Serve(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8000)")
	cmd.Flags().StringVar(&allowedOrigin, "allowed-origin", "", "The single CORS origin allowed to call the API")

	return cmd
}
