package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissing matches any *MissingError via errors.Is.
var ErrMissing = errors.New("required configuration missing")

// MissingError lists the required environment variables that were absent.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissing.Error(), strings.Join(e.Names, ", "))
}

func (e *MissingError) Is(target error) bool { return target == ErrMissing }

// InvalidError reports a present but unusable value.
type InvalidError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %s", e.Field, e.Value, e.Reason)
}

// CheckRequired reports every missing credential.
func CheckRequired(cfg *Config) error {
	var missing []string
	if strings.TrimSpace(cfg.Practicum.Token) == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if cfg.Telegram.ChatID == 0 {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}
	return nil
}
