package clock

import (
	"fmt"
	"time"
)

// DateLayout is the civil-date format used everywhere a calendar day is
// stored or compared. Lexicographic order on this layout matches
// chronological order, which the calendar rules rely on.
const DateLayout = "2006-01-02"

// Clock abstracts the wall clock so "today" can be pinned in tests.
// Services must read the clock once per request and reuse the value for
// every day-scoped decision in that request.
type Clock interface {
	Now() time.Time
}

// Real reports the current time in the service's operating timezone.
type Real struct {
	loc *time.Location
}

func NewReal(timezone string) (*Real, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Real{loc: loc}, nil
}

func (c *Real) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed always reports the same instant. Test helper.
type Fixed struct {
	Instant time.Time
}

func (c Fixed) Now() time.Time {
	return c.Instant
}

// Today formats the clock's current instant as a civil date.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
