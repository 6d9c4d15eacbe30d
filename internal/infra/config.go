package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tickflow/internal/domain"
)

// Run modes. Demo drives the pipeline from the synthetic tick
// generator; live streams ticks from the exchange and runs the
// order-book refresh worker.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// Snapshot store backends.
const (
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
)

// Config holds the full application configuration. It is loaded once
// at startup from YAML, after which secrets may be overridden from the
// environment.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Mode    string `yaml:"mode"`
	} `yaml:"app"`

	Environment string `yaml:"environment"`

	Pair struct {
		Symbol string `yaml:"symbol"`
	} `yaml:"pair"`

	Ticks struct {
		MaxTicks int `yaml:"max_ticks"`
		SleepMS  int `yaml:"sleep_ms"`
	} `yaml:"ticks"`

	Indicators struct {
		FastInterval   int  `yaml:"fast_interval"`
		MediumInterval int  `yaml:"medium_interval"`
		HeavyInterval  int  `yaml:"heavy_interval"`
		Extended       bool `yaml:"extended"`
	} `yaml:"indicators"`

	OrderBook struct {
		RefreshIntervalSec float64 `yaml:"refresh_interval_sec"`
	} `yaml:"orderbook"`

	State struct {
		Backend               string `yaml:"backend"`
		Dir                   string `yaml:"dir"`
		DBPath                string `yaml:"db_path"`
		SnapshotIntervalTicks int    `yaml:"snapshot_interval_ticks"`
	} `yaml:"state"`

	Risk struct {
		MaxAmount decimal.Decimal `yaml:"max_amount"` // zero disables the gate
	} `yaml:"risk"`

	Exchange struct {
		WSURL     string `yaml:"ws_url"`
		RestURL   string `yaml:"rest_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"exchange"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies env
// overrides and validates the result. symbolOverride (from argv) wins
// over the file value when non-empty.
func LoadConfig(path, symbolOverride string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if symbolOverride != "" {
		cfg.Pair.Symbol = symbolOverride
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Mode == "" {
		cfg.App.Mode = ModeDemo
	}
	if cfg.Environment == "" {
		cfg.Environment = "local"
	}
	if cfg.State.Backend == "" {
		cfg.State.Backend = StateBackendFile
	}
	if cfg.State.Dir == "" {
		cfg.State.Dir = "storage/state"
	}
	if cfg.State.DBPath == "" {
		cfg.State.DBPath = "storage/tickflow.db"
	}
	if cfg.OrderBook.RefreshIntervalSec == 0 {
		cfg.OrderBook.RefreshIntervalSec = 5.0
	}
}

// configError builds a *domain.ConfigError for a field.
func configError(field, format string, args ...any) error {
	return &domain.ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Validate checks the configuration invariants. It is called once at
// startup, before any tick is processed (fail-fast). Every violation
// is reported as a *domain.ConfigError naming the offending field.
func (c *Config) Validate() error {
	if c.App.Mode != ModeDemo && c.App.Mode != ModeLive {
		return configError("app.mode", "must be %q or %q, got %q", ModeDemo, ModeLive, c.App.Mode)
	}

	if c.Pair.Symbol == "" {
		return configError("pair.symbol", "is required")
	}

	ind := c.Indicators
	if ind.FastInterval < 1 {
		return configError("indicators.fast_interval", "must be >= 1, got %d", ind.FastInterval)
	}
	if ind.MediumInterval < 1 {
		return configError("indicators.medium_interval", "must be >= 1, got %d", ind.MediumInterval)
	}
	if ind.HeavyInterval < 1 {
		return configError("indicators.heavy_interval", "must be >= 1, got %d", ind.HeavyInterval)
	}
	if ind.MediumInterval < ind.FastInterval {
		return configError("indicators.medium_interval", "must be >= fast_interval")
	}
	if ind.HeavyInterval < ind.MediumInterval {
		return configError("indicators.heavy_interval", "must be >= medium_interval")
	}

	if c.App.Mode == ModeDemo && c.Ticks.MaxTicks <= 0 {
		return configError("ticks.max_ticks", "must be > 0 in demo mode")
	}
	if c.Ticks.SleepMS < 0 {
		return configError("ticks.sleep_ms", "must be >= 0, got %d", c.Ticks.SleepMS)
	}

	if c.OrderBook.RefreshIntervalSec <= 0 {
		return configError("orderbook.refresh_interval_sec", "must be > 0, got %v", c.OrderBook.RefreshIntervalSec)
	}

	if c.State.Backend != StateBackendFile && c.State.Backend != StateBackendSQLite {
		return configError("state.backend", "must be %q or %q, got %q", StateBackendFile, StateBackendSQLite, c.State.Backend)
	}
	if c.State.SnapshotIntervalTicks < 0 {
		return configError("state.snapshot_interval_ticks", "must be >= 0, got %d", c.State.SnapshotIntervalTicks)
	}

	if c.Risk.MaxAmount.IsNegative() {
		return configError("risk.max_amount", "must be >= 0, got %s", c.Risk.MaxAmount)
	}

	if c.App.Mode == ModeLive {
		if !hasPrefix(c.Exchange.WSURL, "ws://") && !hasPrefix(c.Exchange.WSURL, "wss://") {
			return configError("exchange.ws_url", "invalid WS URL: %q", c.Exchange.WSURL)
		}
		if !hasPrefix(c.Exchange.RestURL, "http://") && !hasPrefix(c.Exchange.RestURL, "https://") {
			return configError("exchange.rest_url", "invalid REST URL: %q", c.Exchange.RestURL)
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment variables on top of the file
// values, so secrets never have to live in the YAML.
func overrideWithEnv(cfg *Config) {
	if env := os.Getenv("TICKFLOW_ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	if key := os.Getenv("TICKFLOW_API_KEY"); key != "" {
		cfg.Exchange.APIKey = key
	}
	if secret := os.Getenv("TICKFLOW_API_SECRET"); secret != "" {
		cfg.Exchange.APISecret = secret
	}
}
