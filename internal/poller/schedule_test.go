package poller

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 5, 1, 12, 3, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "empty uses default", raw: "", want: DefaultInterval},
		{name: "duration", raw: "10m", want: 10 * time.Minute},
		{name: "prefixed interval", raw: "every:45s", want: 45 * time.Second},
		{name: "hhmm", raw: "01:30", want: 90 * time.Minute},
		{name: "every descriptor", raw: "@every 5m", want: 5 * time.Minute},
		{name: "cron", raw: "*/10 * * * *", want: 7 * time.Minute},
		{name: "prefixed cron", raw: "cron:0 * * * *", want: 57 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if got := untilNext(s, base); got != tt.want {
				t.Fatalf("untilNext = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"not-a-schedule", "500ms", "00:00", "01:75", "cron:", "cron:* * *", "-5m"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Fatalf("ParseSchedule(%q): expected error", raw)
		}
	}
}

func TestCursor(t *testing.T) {
	t.Parallel()
	c := NewCursor(time.Unix(100, 0))
	if c.Value() != 100 || c.Advanced() {
		t.Fatalf("fresh cursor = %d advanced=%v", c.Value(), c.Advanced())
	}
	c.Advance(250)
	if c.Value() != 250 || !c.Advanced() {
		t.Fatalf("advanced cursor = %d advanced=%v", c.Value(), c.Advanced())
	}
}
