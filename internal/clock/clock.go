// Package clock centralizes "what is today / what is this week" decisions.
// All daily logs, momentum weeks and staleness checks bucket time in one
// canonical timezone, regardless of where the server runs.
package clock

import (
	"fmt"
	"time"
)

// DateKeyLayout is the format used for daily-log date keys.
const DateKeyLayout = "2006-01-02"

// Calendar converts instants into calendar dates and ISO weeks in a fixed
// location. The now function is replaceable in tests.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New creates a Calendar for the given IANA timezone name.
func New(timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// NewFixed creates a Calendar in the given location whose Now always returns
// the given instant. Intended for tests.
func NewFixed(loc *time.Location, at time.Time) *Calendar {
	return &Calendar{loc: loc, now: func() time.Time { return at }}
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now returns the current instant in the calendar's location.
func (c *Calendar) Now() time.Time { return c.now().In(c.loc) }

// DateKey returns the calendar date key (YYYY-MM-DD) for an instant.
func (c *Calendar) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateKeyLayout)
}

// Today returns the date key for the current instant.
func (c *Calendar) Today() string { return c.DateKey(c.now()) }

// StartOfDay returns midnight of the instant's calendar date.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// WeekStart returns midnight of the Monday of the instant's ISO week.
func (c *Calendar) WeekStart(t time.Time) time.Time {
	day := c.StartOfDay(t)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the seven date keys of the instant's ISO week,
// Monday first.
func (c *Calendar) WeekDates(t time.Time) []string {
	start := c.WeekStart(t)
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = start.AddDate(0, 0, i).Format(DateKeyLayout)
	}
	return dates
}
