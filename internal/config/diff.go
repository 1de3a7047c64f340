package config

import (
	"strings"

	logx "homeworkbot/pkg/logx"
)

// SummarizeChange compares two configs.
//
// It returns the sections that changed, safe log fields for them (never
// tokens), and whether the change can be applied without a restart. Only the
// logging section is live; everything else is read once at startup.
func SummarizeChange(oldCfg, newCfg *Config) (changed []string, fields []logx.Field, live bool) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}
	live = true

	if strings.TrimSpace(oldCfg.Practicum.Endpoint) != strings.TrimSpace(newCfg.Practicum.Endpoint) ||
		strings.TrimSpace(oldCfg.Practicum.Timeout) != strings.TrimSpace(newCfg.Practicum.Timeout) ||
		oldCfg.Practicum.Token != newCfg.Practicum.Token {
		changed = append(changed, "practicum")
		fields = append(fields,
			logx.String("practicum.endpoint", strings.TrimSpace(newCfg.Practicum.Endpoint)),
			logx.String("practicum.timeout", strings.TrimSpace(newCfg.Practicum.Timeout)),
		)
		live = false
	}

	if oldCfg.Telegram != newCfg.Telegram {
		changed = append(changed, "telegram")
		fields = append(fields,
			logx.String("telegram.timeout", strings.TrimSpace(newCfg.Telegram.Timeout)),
			logx.Int("telegram.rate_per_sec", newCfg.Telegram.RatePerSec),
			logx.Bool("telegram.chat_id_set", newCfg.Telegram.ChatID != 0),
			logx.String("telegram.api_url", strings.TrimSpace(newCfg.Telegram.APIURL)),
		)
		live = false
	}

	if oldCfg.Poll != newCfg.Poll {
		changed = append(changed, "poll")
		fields = append(fields,
			logx.String("poll.interval", newCfg.Poll.Interval),
			logx.String("poll.window", newCfg.Poll.Window),
		)
		live = false
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		fields = append(fields,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	return changed, fields, live
}

// LogxConfig converts the logging section for logx.Service.
func (c LoggingConfig) LogxConfig() logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File:    logx.FileConfig{Enabled: c.File.Enabled, Path: c.File.Path},
	}
}
