// Package config defines the top-level configuration for the koala bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by KOALABOT_* environment variables.
type Config struct {
	Binance  BinanceConfig  `toml:"binance"`
	Telegram TelegramConfig `toml:"telegram"`
	Watch    WatchConfig    `toml:"watch"`
	LogLevel string         `toml:"log_level"`
}

// BinanceConfig holds the P2P marketplace endpoint and default search
// parameters.
type BinanceConfig struct {
	BaseURL string `toml:"base_url"`
	// Rows is the page size for every search; it is fixed here and not
	// adjustable per command.
	Rows  int    `toml:"rows"`
	Asset string `toml:"asset"`
	Fiat  string `toml:"fiat"`
}

// TelegramConfig holds the bot credentials and long-poll settings.
type TelegramConfig struct {
	Token string `toml:"token"`
	// PollTimeout is the getUpdates long-poll timeout in seconds.
	PollTimeout int `toml:"poll_timeout"`
}

// WatchConfig holds the periodic spread-watch parameters.
type WatchConfig struct {
	Interval duration `toml:"interval"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "60s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "60s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Binance: BinanceConfig{
			BaseURL: "https://p2p.binance.com",
			Rows:    5,
			Asset:   "USDT",
			Fiat:    "MMK",
		},
		Telegram: TelegramConfig{
			PollTimeout: 30,
		},
		Watch: WatchConfig{
			Interval: duration{60 * time.Second},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Binance.BaseURL == "" {
		errs = append(errs, "binance: base_url must not be empty")
	}
	if c.Binance.Rows < 1 {
		errs = append(errs, fmt.Sprintf("binance: rows must be >= 1, got %d", c.Binance.Rows))
	}
	if c.Binance.Asset == "" {
		errs = append(errs, "binance: asset must not be empty")
	}
	if c.Binance.Fiat == "" {
		errs = append(errs, "binance: fiat must not be empty")
	}

	if c.Telegram.Token == "" {
		errs = append(errs, "telegram: token must not be empty")
	}
	if c.Telegram.PollTimeout < 0 {
		errs = append(errs, "telegram: poll_timeout must be >= 0")
	}

	if c.Watch.Interval.Duration <= 0 {
		errs = append(errs, "watch: interval must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
