package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"

	EnvConfigPath = "HOMEWORKBOT_CONFIG"
	EnvEndpoint   = "PRACTICUM_ENDPOINT"
	EnvInterval   = "POLL_INTERVAL"
	EnvLogLevel   = "LOG_LEVEL"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables that are already set win.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment values onto cfg. getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg.Practicum.Token = get(EnvPracticumToken)
	cfg.Telegram.Token = get(EnvTelegramToken)

	cfg.Telegram.ChatID = 0
	if raw := get(EnvTelegramChatID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &InvalidError{Field: EnvTelegramChatID, Value: raw, Reason: "want integer chat id"}
		}
		cfg.Telegram.ChatID = id
	}

	if v := get(EnvEndpoint); v != "" {
		cfg.Practicum.Endpoint = v
	}
	if v := get(EnvInterval); v != "" {
		cfg.Poll.Interval = v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}
