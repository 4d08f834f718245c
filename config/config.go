package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/stockview/internal/apperr"
)

// Config is the complete stockview configuration.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Chart    ChartConfig    `json:"chart" yaml:"chart"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// DataConfig locates the per-symbol CSV files.
type DataConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr"`
	AllowedOrigin  string `json:"allowed_origin" yaml:"allowed_origin"`
	RequestTimeout string `json:"request_timeout" yaml:"request_timeout"` // e.g. "30s"
}

// ParseTimeout converts the request timeout string to a time.Duration.
func (s ServerConfig) ParseTimeout() (time.Duration, error) {
	return parseDuration(s.RequestTimeout)
}

// ProviderConfig selects and configures the market data provider.
type ProviderConfig struct {
	Name       string `json:"name" yaml:"name"` // "alphavantage" or "yahoo"
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	OutputSize string `json:"output_size" yaml:"output_size"` // "compact" or "full"
	Timeout    string `json:"timeout" yaml:"timeout"`
}

func (p ProviderConfig) ParseTimeout() (time.Duration, error) {
	return parseDuration(p.Timeout)
}

type FetchConfig struct {
	Symbol string `json:"symbol" yaml:"symbol"`
}

// JournalConfig contains fetch-run journaling parameters
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ChartConfig struct {
	Years  int `json:"years" yaml:"years"`
	Width  int `json:"width" yaml:"width"`   // pixels
	Height int `json:"height" yaml:"height"` // pixels
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug|info|warn|error
}

// SlogLevel maps the configured level onto a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "./data",
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigin:  "http://localhost:5173",
			RequestTimeout: "30s",
		},
		Provider: ProviderConfig{
			Name:       "alphavantage",
			OutputSize: "full",
			Timeout:    "30s",
		},
		Fetch: FetchConfig{
			Symbol: "NVDA",
		},
		Journal: JournalConfig{
			Enabled: true,
			DBPath:  "./stockview.sqlite",
		},
		Chart: ChartConfig{
			Years:  3,
			Width:  1200,
			Height: 600,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
// Fields absent from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "read config file")
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, apperr.Wrap(apperr.ConfigError, err, "parse config (tried YAML and JSON)")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "invalid config")
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load builds the runtime configuration: defaults, then the optional file at
// path, then a .env file in the working directory, then the process
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "invalid config")
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. getenv is normally
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if val := getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.Provider.APIKey = val
	}
	if val := getenv("STOCKVIEW_PROVIDER"); val != "" {
		c.Provider.Name = val
	}
	if val := getenv("STOCKVIEW_DATA_DIR"); val != "" {
		c.Data.Dir = val
	}
	if val := getenv("STOCKVIEW_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := getenv("STOCKVIEW_ALLOWED_ORIGIN"); val != "" {
		c.Server.AllowedOrigin = val
	}
	if val := getenv("STOCKVIEW_SYMBOL"); val != "" {
		c.Fetch.Symbol = val
	}
	if val := getenv("STOCKVIEW_JOURNAL_DB"); val != "" {
		c.Journal.DBPath = val
	}
	if val := getenv("STOCKVIEW_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
}

// Validate checks if the configuration is valid. The provider API key is
// checked later, when the provider client is built.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.AllowedOrigin == "" {
		return fmt.Errorf("server.allowed_origin is required")
	}
	if d, err := c.Server.ParseTimeout(); err != nil || d < 0 {
		return fmt.Errorf("server.request_timeout must be a non-negative duration (got %q)", c.Server.RequestTimeout)
	}
	switch c.Provider.Name {
	case "alphavantage", "yahoo":
	default:
		return fmt.Errorf("provider.name must be 'alphavantage' or 'yahoo' (got %q)", c.Provider.Name)
	}
	if c.Provider.OutputSize != "compact" && c.Provider.OutputSize != "full" {
		return fmt.Errorf("provider.output_size must be 'compact' or 'full'")
	}
	if d, err := c.Provider.ParseTimeout(); err != nil || d < 0 {
		return fmt.Errorf("provider.timeout must be a non-negative duration (got %q)", c.Provider.Timeout)
	}
	if strings.TrimSpace(c.Fetch.Symbol) == "" {
		return fmt.Errorf("fetch.symbol is required")
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required when journal is enabled")
	}
	if c.Chart.Years <= 0 {
		return fmt.Errorf("chart.years must be positive")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart width and height must be positive")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
