package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	redact(&out.ThreeCommas.ApiKey)
	redact(&out.ThreeCommas.ApiSecret)
	redact(&out.Telegram.BotToken)
	redact(&out.Discord.WebhookURL)
	redact(&out.Journal.DSN)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	out.ThreeCommas.AccountIDs = copyIDs(cfg.ThreeCommas.AccountIDs)
	out.ThreeCommas.BotIDs = copyIDs(cfg.ThreeCommas.BotIDs)
	out.ThreeCommas.DealIDs = copyIDs(cfg.ThreeCommas.DealIDs)
	if cfg.Notify.Events != nil {
		out.Notify.Events = make([]string, len(cfg.Notify.Events))
		copy(out.Notify.Events, cfg.Notify.Events)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

func copyIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
