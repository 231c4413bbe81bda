package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies BOTNANNY_* environment variable overrides, and
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

// applyEnvOverrides reads well-known BOTNANNY_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.IntervalSeconds, "BOTNANNY_INTERVAL_SECONDS")
	setFloat64(&cfg.TargetPnLPercent, "BOTNANNY_TARGET_PNL_PERCENT")
	setFloat64(&cfg.AdjustedSLPercent, "BOTNANNY_ADJUSTED_SL_PERCENT")

	setStr(&cfg.ThreeCommas.ApiKey, "BOTNANNY_THREE_COMMAS_API_KEY")
	setStr(&cfg.ThreeCommas.ApiSecret, "BOTNANNY_THREE_COMMAS_API_SECRET")
	setStr(&cfg.ThreeCommas.BaseURL, "BOTNANNY_THREE_COMMAS_BASE_URL")
	setInt64Slice(&cfg.ThreeCommas.AccountIDs, "BOTNANNY_THREE_COMMAS_ACCOUNT_IDS")
	setInt64Slice(&cfg.ThreeCommas.BotIDs, "BOTNANNY_THREE_COMMAS_BOT_IDS")
	setInt64Slice(&cfg.ThreeCommas.DealIDs, "BOTNANNY_THREE_COMMAS_DEAL_IDS")

	setStr(&cfg.Telegram.BotToken, "BOTNANNY_TELEGRAM_BOT_TOKEN")
	setStr(&cfg.Telegram.ChatID, "BOTNANNY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Discord.WebhookURL, "BOTNANNY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "BOTNANNY_NOTIFY_EVENTS")

	setStr(&cfg.Journal.DSN, "BOTNANNY_JOURNAL_DSN")

	setStr(&cfg.LogLevel, "BOTNANNY_LOG_LEVEL")
	setStr(&cfg.LogFile, "BOTNANNY_LOG_FILE")
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

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

func setInt64Slice(dst *[]int64, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		ids := make([]int64, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return // reject the whole list on a malformed entry
			}
			ids = append(ids, n)
		}
		if len(ids) > 0 {
			*dst = ids
		}
	}
}
