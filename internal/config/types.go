package config

import (
	"strings"
	"time"
)

// Defaults mirror the values the bot has always shipped with.
const (
	DefaultEndpoint         = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPracticumTimeout = 30 * time.Second
	DefaultTelegramTimeout  = 30 * time.Second
	DefaultInterval         = "10m"
	DefaultRatePerSec       = 1

	WindowCursor = "cursor"
	WindowReset  = "reset"
)

// Config is the full bot configuration.
//
// Credentials are tagged json:"-": they only ever come from the process
// environment (or .env), and a config file that tries to set them is rejected
// by the strict decoder.
type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Poll      PollConfig      `json:"poll"`
	Logging   LoggingConfig   `json:"logging"`
}

type PracticumConfig struct {
	Token    string `json:"-"`
	Endpoint string `json:"endpoint,omitempty"`
	// Timeout is a Go duration string (e.g. "10s", "1m").
	Timeout string `json:"timeout,omitempty"`
}

type TelegramConfig struct {
	Token  string `json:"-"`
	ChatID int64  `json:"-"`
	// Timeout bounds a single sendMessage call.
	Timeout    string `json:"timeout,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	// APIURL points at a self-hosted Bot API server; empty means api.telegram.org.
	APIURL string `json:"api_url,omitempty"`
}

// PollConfig controls the polling loop.
//
// Interval accepts a Go duration ("10m"), HH:MM ("00:10") or a cron
// expression ("*/10 * * * *", "@every 10m").
//
// Window is "cursor" (ask for updates since the last server current_date)
// or "reset" (ask for updates since the moment of each request).
type PollConfig struct {
	Interval string `json:"interval,omitempty"`
	Window   string `json:"window,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Default returns a config with every optional field populated.
func Default() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultPracticumTimeout.String(),
		},
		Telegram: TelegramConfig{
			Timeout:    DefaultTelegramTimeout.String(),
			RatePerSec: DefaultRatePerSec,
		},
		Poll: PollConfig{
			Interval: DefaultInterval,
			Window:   WindowCursor,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Resolved is the immutable runtime view of Config handed to components.
type Resolved struct {
	PracticumToken   string
	Endpoint         string
	PracticumTimeout time.Duration

	TelegramToken   string
	ChatID          int64
	TelegramTimeout time.Duration
	TelegramAPIURL  string
	RatePerSec      int

	Interval string
	Window   string
}

// Resolve checks required values and parses durations.
//
// Missing credentials are reported together as a *MissingError so the
// operator sees every absent variable at once.
func Resolve(cfg *Config) (Resolved, error) {
	if cfg == nil {
		cfg = Default()
	}
	if err := CheckRequired(cfg); err != nil {
		return Resolved{}, err
	}

	pt, err := durationOr("practicum.timeout", cfg.Practicum.Timeout, DefaultPracticumTimeout)
	if err != nil {
		return Resolved{}, err
	}
	tt, err := durationOr("telegram.timeout", cfg.Telegram.Timeout, DefaultTelegramTimeout)
	if err != nil {
		return Resolved{}, err
	}

	window := strings.ToLower(strings.TrimSpace(cfg.Poll.Window))
	switch window {
	case "":
		window = WindowCursor
	case WindowCursor, WindowReset:
	default:
		return Resolved{}, &InvalidError{Field: "poll.window", Value: cfg.Poll.Window, Reason: "want cursor or reset"}
	}

	endpoint := strings.TrimSpace(cfg.Practicum.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	interval := strings.TrimSpace(cfg.Poll.Interval)
	if interval == "" {
		interval = DefaultInterval
	}
	rps := cfg.Telegram.RatePerSec
	if rps <= 0 {
		rps = DefaultRatePerSec
	}

	return Resolved{
		PracticumToken:   cfg.Practicum.Token,
		Endpoint:         endpoint,
		PracticumTimeout: pt,
		TelegramToken:    cfg.Telegram.Token,
		ChatID:           cfg.Telegram.ChatID,
		TelegramTimeout:  tt,
		TelegramAPIURL:   strings.TrimSpace(cfg.Telegram.APIURL),
		RatePerSec:       rps,
		Interval:         interval,
		Window:           window,
	}, nil
}

// durationOr parses a positive Go duration; empty or zero yields def.
func durationOr(field, raw string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &InvalidError{Field: field, Value: raw, Reason: err.Error()}
	}
	if d < 0 {
		return 0, &InvalidError{Field: field, Value: raw, Reason: "duration must be >= 0"}
	}
	if d == 0 {
		return def, nil
	}
	return d, nil
}
