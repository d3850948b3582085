// Package clock resolves the calendar day that all day-scoped records are keyed by.
package clock

import (
	"io"
	"log/slog"
	"time"
)

// DateLayout is the format of every day key stored by the bot.
const DateLayout = "2006-01-02"

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "Europe/Moscow"

// fallbackZone is used when the timezone database cannot resolve the configured zone.
var fallbackZone = time.FixedZone("UTC+3", 3*60*60)

// Clock reports the current day in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// Option customizes a Clock.
type Option func(*Clock)

// WithNow overrides the wall clock source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New creates a Clock for the named IANA timezone. If the zone cannot be
// loaded the clock degrades to a fixed UTC+3 offset and logs a warning.
func New(timezone string, logger *slog.Logger, opts ...Option) *Clock {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Timezone unavailable, falling back to fixed offset (degraded)",
			"component", "clock", "timezone", timezone, "fallback", fallbackZone.String(), "error", err)
		loc = fallbackZone
	}

	c := &Clock{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fixed returns a Clock pinned to t, in t's location. Used by tests and tools.
func Fixed(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Today returns the current calendar date as YYYY-MM-DD in the clock's location.
func (c *Clock) Today() string {
	return c.now().In(c.loc).Format(DateLayout)
}

// Location returns the location days are computed in.
func (c *Clock) Location() *time.Location {
	return c.loc
}
