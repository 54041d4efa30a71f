// Package config defines the top-level configuration for the tradewatch
// client and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by TRADEWATCH_* environment variables.
type Config struct {
	Environment string          `toml:"environment"`
	API         APIConfig       `toml:"api"`
	Refresh     RefreshConfig   `toml:"refresh"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Watch       WatchConfig     `toml:"watch"`
	Notify      NotifyConfig    `toml:"notify"`
	Mode        string          `toml:"mode"`
	LogLevel    string          `toml:"log_level"`
}

// APIConfig holds backend endpoint parameters and the optional host identity
// token forwarded on every request.
type APIConfig struct {
	BaseURL    string   `toml:"base_url"`
	DevBaseURL string   `toml:"dev_base_url"`
	InitData   string   `toml:"init_data"`
	Timeout    duration `toml:"timeout"`
}

// ResolveBaseURL picks the API root once at startup: the production base URL
// unless the environment is "development", in which case the dev URL wins.
func (a APIConfig) ResolveBaseURL(environment string) string {
	if strings.EqualFold(environment, "development") {
		return a.DevBaseURL
	}
	return a.BaseURL
}

// RefreshConfig holds the periodic refresh parameters for the dashboard.
type RefreshConfig struct {
	Interval duration `toml:"interval"`
	// FullReload makes the timer refresh every region instead of only the
	// active tab.
	FullReload bool `toml:"full_reload"`
}

// DashboardConfig holds rendering parameters.
type DashboardConfig struct {
	HistoryLimit int `toml:"history_limit"`
	EquityDays   int `toml:"equity_days"`
	ChartWidth   int `toml:"chart_width"`
	ChartHeight  int `toml:"chart_height"`
}

// WatchConfig holds headless watch-mode parameters.
type WatchConfig struct {
	Interval duration `toml:"interval"`
	// SummaryCron is the cron expression for the daily equity summary push.
	SummaryCron string `toml:"summary_cron"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken  string   `toml:"telegram_token"`
	TelegramChatID string   `toml:"telegram_chat_id"`
	Events         []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "15s", "1m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "15s" or "1m".
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
		Environment: "development",
		API: APIConfig{
			BaseURL:    "",
			DevBaseURL: "http://localhost:8000/api",
			Timeout:    duration{30 * time.Second},
		},
		Refresh: RefreshConfig{
			Interval:   duration{15 * time.Second},
			FullReload: false,
		},
		Dashboard: DashboardConfig{
			HistoryLimit: 50,
			EquityDays:   30,
			ChartWidth:   60,
			ChartHeight:  10,
		},
		Watch: WatchConfig{
			Interval:    duration{30 * time.Second},
			SummaryCron: "0 21 * * *",
		},
		Notify: NotifyConfig{
			Events: []string{"trade_opened", "trade_closed", "ai_toggled", "daily_summary", "error"},
		},
		Mode:     "dashboard",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"dashboard": true,
	"watch":     true,
	"once":      true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validEnvironments enumerates the accepted values for Config.Environment.
var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: dashboard, watch, once)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Environment
	if !validEnvironments[strings.ToLower(c.Environment)] {
		errs = append(errs, fmt.Sprintf("unknown environment %q (valid: development, production)", c.Environment))
	}

	// API — the resolved base URL must be present for the active environment.
	if c.API.ResolveBaseURL(c.Environment) == "" {
		if strings.EqualFold(c.Environment, "development") {
			errs = append(errs, "api: dev_base_url must not be empty in development")
		} else {
			errs = append(errs, "api: base_url must not be empty in production")
		}
	}
	if c.API.Timeout.Duration <= 0 {
		errs = append(errs, "api: timeout must be > 0")
	}

	// Refresh
	if c.Refresh.Interval.Duration < time.Second {
		errs = append(errs, fmt.Sprintf("refresh: interval must be >= 1s, got %s", c.Refresh.Interval.Duration))
	}

	// Dashboard
	if c.Dashboard.HistoryLimit < 1 {
		errs = append(errs, "dashboard: history_limit must be >= 1")
	}
	if c.Dashboard.EquityDays < 1 {
		errs = append(errs, "dashboard: equity_days must be >= 1")
	}
	if c.Dashboard.ChartWidth < 10 {
		errs = append(errs, "dashboard: chart_width must be >= 10")
	}
	if c.Dashboard.ChartHeight < 4 {
		errs = append(errs, "dashboard: chart_height must be >= 4")
	}

	// Watch
	if strings.ToLower(c.Mode) == "watch" {
		if c.Watch.Interval.Duration < time.Second {
			errs = append(errs, fmt.Sprintf("watch: interval must be >= 1s, got %s", c.Watch.Interval.Duration))
		}
		if c.Watch.SummaryCron == "" {
			errs = append(errs, "watch: summary_cron must not be empty")
		}
	}

	// Notify — token and chat ID must be set together, or both empty.
	tk := c.Notify.TelegramToken != ""
	ch := c.Notify.TelegramChatID != ""
	if tk != ch {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
