// Package store persists one OHLCV series per symbol as CSV under a base directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rustyeddy/stockview/internal/apperr"
	"github.com/rustyeddy/stockview/market"
)

// FileSuffix is appended to the symbol to form the series file name.
const FileSuffix = "_stock_data.csv"

type Store struct {
	base string
}

// New returns a Store rooted at dir. The directory does not need to exist
// until the first Save.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, apperr.New(apperr.ConfigError, "store: missing data directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("store: resolve %s: %w", dir, err)
	}
	return &Store{base: filepath.Clean(abs)}, nil
}

func (s *Store) Dir() string { return s.base }

// Path resolves the series file for symbol. Any symbol whose file would not
// sit directly inside the base directory is rejected.
func (s *Store) Path(symbol string) (string, error) {
	if symbol == "" {
		return "", apperr.New(apperr.InvalidInput, "symbol is required")
	}
	if strings.ContainsRune(symbol, 0) {
		return "", apperr.New(apperr.InvalidInput, "invalid symbol %q", symbol)
	}

	p := filepath.Clean(filepath.Join(s.base, symbol+FileSuffix))
	rel, err := filepath.Rel(s.base, p)
	if err != nil || rel == "." || rel != filepath.Base(p) || strings.HasPrefix(rel, "..") {
		return "", apperr.New(apperr.InvalidInput, "illegal path for symbol %q", symbol)
	}
	return p, nil
}

// Load reads and parses the series for symbol, sorted ascending by date.
func (s *Store) Load(symbol string) ([]market.Candle, error) {
	p, err := s.Path(symbol)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.NotFound, "no stock data file for symbol %s", symbol)
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	candles, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	return candles, nil
}

// Save replaces the series for symbol with candles. The file is written to a
// temporary name in the same directory and renamed into place so readers never
// observe a partial series.
func (s *Store) Save(symbol string, candles []market.Candle) (string, error) {
	p, err := s.Path(symbol)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.base, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.base, "."+symbol+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, candles); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return "", fmt.Errorf("replace %s: %w", p, err)
	}
	return p, nil
}

// Symbols lists the symbols that have a series file, sorted.
func (s *Store) Symbols() ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, FileSuffix) {
			continue
		}
		if sym := strings.TrimSuffix(name, FileSuffix); sym != "" {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out, nil
}
