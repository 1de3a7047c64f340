package poller

import "time"

// Cursor is the lower bound (Unix seconds) of the next fetch window.
//
// It lives only in process memory: after a restart the bot starts from "now"
// and changes made while it was down are not reported.
type Cursor struct {
	ts       int64
	advanced bool
}

func NewCursor(now time.Time) *Cursor {
	return &Cursor{ts: now.Unix()}
}

func (c *Cursor) Value() int64 { return c.ts }

// Advanced reports whether the server ever moved the cursor.
func (c *Cursor) Advanced() bool { return c.advanced }

func (c *Cursor) Advance(ts int64) {
	c.ts = ts
	c.advanced = true
}
