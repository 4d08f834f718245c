package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockview/internal/apperr"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "NVDA", cfg.Fetch.Symbol)
	assert.Equal(t, "http://localhost:5173", cfg.Server.AllowedOrigin)
	assert.Equal(t, "alphavantage", cfg.Provider.Name)
	assert.Equal(t, 3, cfg.Chart.Years)
	assert.NoError(t, cfg.Validate())

	d, err := cfg.Server.ParseTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }, "data.dir is required"},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"missing origin", func(c *Config) { c.Server.AllowedOrigin = "" }, "server.allowed_origin is required"},
		{"bad request timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }, "server.request_timeout"},
		{"unknown provider", func(c *Config) { c.Provider.Name = "bloomberg" }, "provider.name"},
		{"bad output size", func(c *Config) { c.Provider.OutputSize = "huge" }, "provider.output_size"},
		{"bad provider timeout", func(c *Config) { c.Provider.Timeout = "-1s" }, "provider.timeout"},
		{"blank symbol", func(c *Config) { c.Fetch.Symbol = "  " }, "fetch.symbol is required"},
		{"journal without path", func(c *Config) { c.Journal.DBPath = "" }, "journal.db_path"},
		{"journal disabled without path", func(c *Config) { c.Journal.Enabled = false; c.Journal.DBPath = "" }, ""},
		{"zero years", func(c *Config) { c.Chart.Years = 0 }, "chart.years must be positive"},
		{"zero width", func(c *Config) { c.Chart.Width = 0 }, "chart width and height"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"yahoo provider", func(c *Config) { c.Provider.Name = "yahoo" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Fetch.Symbol = "AAPL"
			cfg.Data.Dir = "/srv/stock"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch:\n  symbol: MSFT\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", cfg.Fetch.Symbol)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "full", cfg.Provider.OutputSize)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ConfigError))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart:\n  years: -2\n"), 0o644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ConfigError))
	assert.Contains(t, err.Error(), "chart.years")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ALPHA_VANTAGE_API_KEY":    "secret",
		"STOCKVIEW_PROVIDER":       "yahoo",
		"STOCKVIEW_DATA_DIR":       "/tmp/data",
		"STOCKVIEW_ADDR":           "127.0.0.1:9000",
		"STOCKVIEW_ALLOWED_ORIGIN": "https://charts.example.com",
		"STOCKVIEW_SYMBOL":         "TSLA",
		"STOCKVIEW_JOURNAL_DB":     "/tmp/runs.sqlite",
		"STOCKVIEW_LOG_LEVEL":      "debug",
	}

	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "secret", cfg.Provider.APIKey)
	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.Equal(t, "/tmp/data", cfg.Data.Dir)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "https://charts.example.com", cfg.Server.AllowedOrigin)
	assert.Equal(t, "TSLA", cfg.Fetch.Symbol)
	assert.Equal(t, "/tmp/runs.sqlite", cfg.Journal.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvEmptyLeavesValues(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "from-env")
	t.Setenv("STOCKVIEW_SYMBOL", "AMD")

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.APIKey)
	assert.Equal(t, "AMD", cfg.Fetch.Symbol)
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	t.Setenv("STOCKVIEW_PROVIDER", "nope")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ConfigError))
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := LogConfig{Level: tt.level}.SlogLevel()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
