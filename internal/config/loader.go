package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TRADEWATCH_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
//
// A missing config file is not an error: defaults plus environment overrides
// are enough to run against a local backend.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TRADEWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets the embedding host inject the identity token and endpoint
// at launch time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Environment, "TRADEWATCH_ENVIRONMENT")
	setStr(&cfg.Mode, "TRADEWATCH_MODE")
	setStr(&cfg.LogLevel, "TRADEWATCH_LOG_LEVEL")

	// ── API ──
	setStr(&cfg.API.BaseURL, "TRADEWATCH_API_BASE_URL")
	setStr(&cfg.API.DevBaseURL, "TRADEWATCH_API_DEV_BASE_URL")
	setStr(&cfg.API.InitData, "TRADEWATCH_INIT_DATA")
	setDuration(&cfg.API.Timeout, "TRADEWATCH_API_TIMEOUT")

	// ── Refresh ──
	setDuration(&cfg.Refresh.Interval, "TRADEWATCH_REFRESH_INTERVAL")
	setBool(&cfg.Refresh.FullReload, "TRADEWATCH_REFRESH_FULL_RELOAD")

	// ── Dashboard ──
	setInt(&cfg.Dashboard.HistoryLimit, "TRADEWATCH_DASHBOARD_HISTORY_LIMIT")
	setInt(&cfg.Dashboard.EquityDays, "TRADEWATCH_DASHBOARD_EQUITY_DAYS")
	setInt(&cfg.Dashboard.ChartWidth, "TRADEWATCH_DASHBOARD_CHART_WIDTH")
	setInt(&cfg.Dashboard.ChartHeight, "TRADEWATCH_DASHBOARD_CHART_HEIGHT")

	// ── Watch ──
	setDuration(&cfg.Watch.Interval, "TRADEWATCH_WATCH_INTERVAL")
	setStr(&cfg.Watch.SummaryCron, "TRADEWATCH_WATCH_SUMMARY_CRON")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "TRADEWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "TRADEWATCH_NOTIFY_TELEGRAM_CHAT_ID")
}

// setStr overwrites dst if the environment variable is set and non-empty.
func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt overwrites dst if the environment variable parses as an integer.
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// setBool overwrites dst if the environment variable parses as a boolean.
func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// setDuration overwrites dst if the environment variable parses as a duration
// string like "15s" or "1m".
func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
