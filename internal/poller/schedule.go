package poller

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is the pause between polls when nothing is configured.
const DefaultInterval = 10 * time.Minute

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

// ParseSchedule turns the poll.interval setting into a cron.Schedule.
//
// Supported forms:
//   - Go duration: "10m", "90s"
//   - HH:MM interval: "00:10" (ten minutes)
//   - Cron: "*/10 * * * *", "@hourly", "@every 10m"
//
// The prefixes "cron:" and "every:" force a form.
func ParseSchedule(raw string) (cron.Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return cron.Every(DefaultInterval), nil
	}

	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		return parseCron(strings.TrimSpace(s[len("cron:"):]))
	case strings.HasPrefix(low, "every:"):
		d, err := parseInterval(strings.TrimSpace(s[len("every:"):]))
		if err != nil {
			return nil, err
		}
		return cron.Every(d), nil
	case strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@"):
		return parseCron(s)
	}

	d, err := parseInterval(s)
	if err != nil {
		return nil, fmt.Errorf(
			"invalid poll interval %q (use a duration like '10m', HH:MM like '00:10', or cron like '*/10 * * * *')",
			raw,
		)
	}
	return cron.Every(d), nil
}

func parseCron(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression required")
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched, nil
}

func parseInterval(v string) (time.Duration, error) {
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return 0, fmt.Errorf("invalid minutes in %q", v)
		}
		d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		if d <= 0 {
			return 0, fmt.Errorf("interval must be > 0")
		}
		return d, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", v, err)
	}
	// cron.Every rounds below one second up to one second.
	if d < time.Second {
		return 0, fmt.Errorf("interval must be >= 1s")
	}
	return d, nil
}

// untilNext returns how long to sleep from now until the schedule fires.
func untilNext(s cron.Schedule, now time.Time) time.Duration {
	next := s.Next(now)
	if next.IsZero() {
		// Schedule never fires again (e.g. Feb 30); fall back to the default.
		return DefaultInterval
	}
	d := next.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
