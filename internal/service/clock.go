package service

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// now returns the clock's time in UTC at millisecond precision, the finest
// resolution every store backend keeps.
func (c Clock) now() time.Time {
	if c == nil {
		c = time.Now
	}
	return c().UTC().Truncate(time.Millisecond)
}

func generateULID() string {
	return ulid.Make().String()
}
