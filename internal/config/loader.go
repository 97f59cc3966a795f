package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies KOALABOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known KOALABOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject the bot token at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Binance.BaseURL, "KOALABOT_BINANCE_BASE_URL")
	setInt(&cfg.Binance.Rows, "KOALABOT_BINANCE_ROWS")
	setStr(&cfg.Binance.Asset, "KOALABOT_BINANCE_ASSET")
	setStr(&cfg.Binance.Fiat, "KOALABOT_BINANCE_FIAT")

	setStr(&cfg.Telegram.Token, "KOALABOT_TELEGRAM_TOKEN")
	setStr(&cfg.Telegram.Token, "TELEGRAM_BOT_API_TOKEN") // compatibility alias
	setInt(&cfg.Telegram.PollTimeout, "KOALABOT_TELEGRAM_POLL_TIMEOUT")

	setDuration(&cfg.Watch.Interval, "KOALABOT_WATCH_INTERVAL")

	setStr(&cfg.LogLevel, "KOALABOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
