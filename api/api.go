package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/stockview/internal/service"
	"github.com/rustyeddy/stockview/market"
)

// This package exposes the stored series over HTTP. Files are split as:
// - api.go: handler type, routing and the server loop (this file)
// - handler.go: HTTP request handlers
// - middleware.go: request id, logging and CORS middleware
// - errors.go: mapping of error kinds to HTTP responses

const (
	DefaultTimeout       = 30 * time.Second
	DefaultAllowedOrigin = "http://localhost:5173"
	ServiceName          = "stockview"
	RequestIDContextKey  = "request_id"
	RequestIDHeaderKey   = "X-Request-ID"

	shutdownTimeout = 10 * time.Second
)

// StockService answers stock queries.
type StockService interface {
	Query(ctx context.Context, q service.Query) ([]market.Candle, error)
	Symbols() ([]string, error)
}

type Options struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
	Version        string
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	stocks StockService
	logger *slog.Logger
	opts   Options
}

func NewAPIHandler(stocks StockService, logger *slog.Logger, opts Options) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = DefaultAllowedOrigin
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	return &APIHandler{
		stocks: stocks,
		logger: logger,
		opts:   opts,
	}
}

// SetupRoutes configures all API routes. The gin mode is left to the caller.
func (h *APIHandler) SetupRoutes() *gin.Engine {
	router := gin.New()

	// Match on the escaped path so an encoded "/" stays inside the symbol
	// parameter and reaches the path check instead of the router.
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.Use(gin.CustomRecovery(h.handlePanic))
	router.Use(corsMiddleware(h.opts.AllowedOrigin))

	router.GET("/health", h.HealthCheck)
	router.GET("/stock", h.ListSymbols)
	router.GET("/stock/:symbol", h.GetStock)

	api := router.Group("/api")
	api.GET("/stock", h.ListSymbols)
	api.GET("/stock/:symbol", h.GetStock)

	return router
}

// Serve runs the HTTP server on addr until ctx is done, then shuts it down
// gracefully.
func (h *APIHandler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("http server listening", "addr", addr, "allowed_origin", h.opts.AllowedOrigin)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.logger.Info("http server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
