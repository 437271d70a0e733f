package adapter

import (
	"time"

	"cloud.google.com/go/civil"
)

// SystemClock implements port.Clock with the wall clock in a fixed location.
// Loan dates are calendar days, so the location decides when "today" rolls.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a clock for loc; nil means time.Local.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Today() civil.Date {
	return civil.DateOf(time.Now().In(c.loc))
}

// FixedClock always reports the same day. Used by creditctl --as-of.
type FixedClock struct {
	Day civil.Date
}

func (c FixedClock) Today() civil.Date {
	return c.Day
}
