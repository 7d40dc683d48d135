package moexdata

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration, read from a TOML file.
//
//	[data]
//	path = "data"
//
//	[update]
//	max_age_days = 1.0
//	tolerance = 1e-6
//
//	[portfolio]
//	tickers = ["GAZP", "SBERP"]
type Config struct {
	Data struct {
		Path string `toml:"path"`
	} `toml:"data"`

	Update struct {
		MaxAgeDays float64 `toml:"max_age_days"`
		Tolerance  float64 `toml:"tolerance"`
	} `toml:"update"`

	Portfolio struct {
		Tickers []string `toml:"tickers"`
	} `toml:"portfolio"`
}

// LoadConfig reads the configuration from path. A missing file is not an
// error: defaults apply, so the tool works out of the box. The environment
// variable MOEXDATA_PATH overrides the data folder either way.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	}
	if v := os.Getenv("MOEXDATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Data.Path == "" {
		cfg.Data.Path = "data"
	}
	if cfg.Update.MaxAgeDays <= 0 {
		cfg.Update.MaxAgeDays = 1
	}
	if cfg.Update.Tolerance <= 0 {
		cfg.Update.Tolerance = DefaultTolerance
	}
}

func validateConfig(cfg *Config) error {
	cfg.Portfolio.Tickers = NormalizeTickers(cfg.Portfolio.Tickers)
	for _, t := range cfg.Portfolio.Tickers {
		if strings.ContainsAny(t, "/\\.") {
			return fmt.Errorf("invalid ticker %q", t)
		}
	}
	return nil
}

// NormalizeTickers uppercases, trims and deduplicates a ticker list,
// preserving first-seen order.
func NormalizeTickers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
