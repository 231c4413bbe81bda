// Package config defines the top-level configuration for botnanny and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by BOTNANNY_* environment
// variables. It is built once at startup and passed by reference into every
// component; nothing mutates it afterwards.
type Config struct {
	// IntervalSeconds is the sleep between polling cycles.
	IntervalSeconds int `toml:"interval_seconds"`
	// TargetPnLPercent is the profit threshold that triggers protection.
	TargetPnLPercent float64 `toml:"target_pnl_percent"`
	// AdjustedSLPercent is the stop-loss applied once the threshold is hit.
	AdjustedSLPercent float64 `toml:"adjusted_sl_percent"`

	ThreeCommas ThreeCommasConfig `toml:"three_commas"`
	Telegram    TelegramConfig    `toml:"telegram"`
	Discord     DiscordConfig     `toml:"discord"`
	Notify      NotifyConfig      `toml:"notify"`
	Journal     JournalConfig     `toml:"journal"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// ThreeCommasConfig holds 3Commas API credentials and the operator's explicit
// entity selections. The ID lists are unioned with whatever discovery finds,
// never substituted for it.
type ThreeCommasConfig struct {
	ApiKey    string `toml:"api_key"`
	ApiSecret string `toml:"api_secret"`
	BaseURL   string `toml:"base_url"`

	AccountIDs []int64 `toml:"account_ids"`
	BotIDs     []int64 `toml:"bot_ids"`
	DealIDs    []int64 `toml:"deal_ids"`
}

// TelegramConfig holds Telegram Bot API credentials for notifications.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

// DiscordConfig holds a Discord webhook URL for notifications.
type DiscordConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

// NotifyConfig holds notification filtering options. If Events is empty,
// every event type is forwarded.
type NotifyConfig struct {
	Events []string `toml:"events"`
}

// JournalConfig holds the optional PostgreSQL journal connection. An empty
// DSN disables journaling entirely.
type JournalConfig struct {
	DSN string `toml:"dsn"`
}

// Defaults returns a Config populated with the built-in default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		IntervalSeconds:   600,
		TargetPnLPercent:  4.0,
		AdjustedSLPercent: 1.0,
		ThreeCommas: ThreeCommasConfig{
			BaseURL: "https://api.3commas.io",
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

// Validate checks Config for invalid or missing values and returns a combined
// error describing every problem found. Missing API credentials are reported
// here so the process refuses to start the loop without them.
func (c *Config) Validate() error {
	var errs []string

	if c.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("interval_seconds must be positive, got %d", c.IntervalSeconds))
	}
	if c.AdjustedSLPercent > c.TargetPnLPercent {
		errs = append(errs, fmt.Sprintf(
			"adjusted_sl_percent (%.2f) must not exceed target_pnl_percent (%.2f)",
			c.AdjustedSLPercent, c.TargetPnLPercent,
		))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// 3Commas credentials are required; there is no read-only mode.
	if strings.TrimSpace(c.ThreeCommas.ApiKey) == "" {
		errs = append(errs, "three_commas: api_key must not be empty")
	}
	if strings.TrimSpace(c.ThreeCommas.ApiSecret) == "" {
		errs = append(errs, "three_commas: api_secret must not be empty")
	}
	if c.ThreeCommas.BaseURL == "" {
		errs = append(errs, "three_commas: base_url must not be empty")
	}

	// Telegram — both fields must be set together, or both empty.
	tk := c.Telegram.BotToken != ""
	tc := c.Telegram.ChatID != ""
	if tk != tc {
		errs = append(errs, "telegram: bot_token and chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
