// Package config holds the recognized simulation options and their
// validation. All configuration errors are fatal: the simulation never
// starts on an invalid config.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RobotTraders/CryptoStrategyLab/risk"
	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

// Error is a fatal configuration error.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

func errf(field, format string, args ...any) *Error {
	return &Error{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Config represents one complete backtest configuration.
type Config struct {
	Instrument string `json:"instrument" yaml:"instrument"`

	FastMAPeriod  int `json:"fast_ma_period" yaml:"fast_ma_period"`
	SlowMAPeriod  int `json:"slow_ma_period" yaml:"slow_ma_period"`
	TrendMAPeriod int `json:"trend_ma_period" yaml:"trend_ma_period"`

	// Mode is long, short or both (default both).
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	Leverage       float64 `json:"leverage,omitempty" yaml:"leverage,omitempty"`
	FeeRate        float64 `json:"fee_rate" yaml:"fee_rate"`

	// Exactly one of the three sizing options must be set.
	PositionSizePercentage  *float64 `json:"position_size_percentage,omitempty" yaml:"position_size_percentage,omitempty"`
	PositionSizeFixedAmount *float64 `json:"position_size_fixed_amount,omitempty" yaml:"position_size_fixed_amount,omitempty"`
	PositionSizeExposure    *float64 `json:"position_size_exposure,omitempty" yaml:"position_size_exposure,omitempty"`

	// StopLossPct is the adverse stop distance as a fraction of the entry
	// price. Required by exposure sizing, ignored otherwise.
	StopLossPct *float64 `json:"stop_loss_pct,omitempty" yaml:"stop_loss_pct,omitempty"`

	Journal JournalConfig `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// JournalConfig selects where trades and the equity curve are persisted.
// An empty Type disables persistence (library callers consume the in-memory
// result directly).
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "csv", "sqlite" or ""
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	pct := 100.0
	return &Config{
		Instrument:             "BTC/USDT",
		FastMAPeriod:           20,
		SlowMAPeriod:           50,
		TrendMAPeriod:          200,
		Mode:                   string(strategy.ModeBoth),
		InitialBalance:         1000,
		Leverage:               1,
		FeeRate:                0.0006,
		PositionSizePercentage: &pct,
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every recognized option. All failures are *Error.
func (c *Config) Validate() error {
	if c.FastMAPeriod <= 0 {
		return errf("fast_ma_period", "must be a positive integer, got %d", c.FastMAPeriod)
	}
	if c.SlowMAPeriod <= 0 {
		return errf("slow_ma_period", "must be a positive integer, got %d", c.SlowMAPeriod)
	}
	if c.TrendMAPeriod <= 0 {
		return errf("trend_ma_period", "must be a positive integer, got %d", c.TrendMAPeriod)
	}

	if _, err := strategy.ParseMode(c.Mode); err != nil {
		return errf("mode", "%v", err)
	}

	if c.InitialBalance <= 0 {
		return errf("initial_balance", "must be positive, got %v", c.InitialBalance)
	}
	if c.Leverage != 0 && c.Leverage < 1 {
		return errf("leverage", "must be >= 1, got %v", c.Leverage)
	}
	if c.FeeRate < 0 {
		return errf("fee_rate", "must be >= 0, got %v", c.FeeRate)
	}

	if _, err := c.SizingPolicy(); err != nil {
		return err
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return errf("journal", "trades_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return errf("journal", "db_path required for sqlite type")
		}
	default:
		return errf("journal.type", "must be csv, sqlite or empty, got %q", c.Journal.Type)
	}

	return nil
}

// SizingPolicy resolves the three mutually exclusive sizing options into a
// tagged risk.Policy, once, at validation time.
func (c *Config) SizingPolicy() (risk.Policy, error) {
	set := 0
	for _, p := range []*float64{c.PositionSizePercentage, c.PositionSizeFixedAmount, c.PositionSizeExposure} {
		if p != nil {
			set++
		}
	}
	if set == 0 {
		return risk.Policy{}, errf("position_size", "one of position_size_percentage, position_size_fixed_amount, position_size_exposure is required")
	}
	if set > 1 {
		return risk.Policy{}, errf("position_size", "only one sizing policy may be specified, got %d", set)
	}

	switch {
	case c.PositionSizePercentage != nil:
		p, err := risk.PercentOfBalance(*c.PositionSizePercentage)
		if err != nil {
			return risk.Policy{}, errf("position_size_percentage", "%v", err)
		}
		return p, nil

	case c.PositionSizeFixedAmount != nil:
		p, err := risk.FixedAmount(*c.PositionSizeFixedAmount)
		if err != nil {
			return risk.Policy{}, errf("position_size_fixed_amount", "%v", err)
		}
		return p, nil

	default:
		if c.StopLossPct == nil {
			return risk.Policy{}, errf("stop_loss_pct", "required for exposure-based sizing")
		}
		p, err := risk.Exposure(*c.PositionSizeExposure, *c.StopLossPct)
		if err != nil {
			return risk.Policy{}, errf("position_size_exposure", "%v", err)
		}
		return p, nil
	}
}

// TradeMode returns the parsed mode. Call Validate first.
func (c *Config) TradeMode() strategy.Mode {
	m, err := strategy.ParseMode(c.Mode)
	if err != nil {
		return strategy.ModeBoth
	}
	return m
}

// EffectiveLeverage returns the configured leverage, defaulting to 1.
func (c *Config) EffectiveLeverage() float64 {
	if c.Leverage < 1 {
		return 1
	}
	return c.Leverage
}

// MaxPeriod returns the largest of the three MA periods, the minimum series
// length for any indicator to ever become defined.
func (c *Config) MaxPeriod() int {
	max := c.FastMAPeriod
	if c.SlowMAPeriod > max {
		max = c.SlowMAPeriod
	}
	if c.TrendMAPeriod > max {
		max = c.TrendMAPeriod
	}
	return max
}
