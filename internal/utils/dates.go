package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/campusmate/campusmate/internal/constants"
)

type deadlineLayout struct {
	layout string
	zoned  bool
}

// deadlineLayouts are tried in order. Layouts without a zone parse as UTC.
var deadlineLayouts = []deadlineLayout{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{constants.DateFormat, false},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"2 January 2006", false},
}

// ParseDeadline parses a free-form deadline string. The second return value is
// false for empty or unrecognised input; callers treat that as "no deadline".
func ParseDeadline(s string) (time.Time, bool) {
	t, _, ok := ParseDeadlineZone(s)
	return t, ok
}

// ParseDeadlineZone is ParseDeadline that also reports whether the input
// carried its own offset. Zoneless input is a calendar date or wall-clock
// time, returned as UTC.
func ParseDeadlineZone(s string) (t time.Time, zoned bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range deadlineLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t, l.zoned, true
		}
	}
	return time.Time{}, false, false
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" it returns the system's local timezone, and an
// empty name means UTC.
func LoadLocation(timezone string) (*time.Location, error) {
	switch timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// MonthLabel renders the "Month Year" group label for t, converted to loc
// when loc is non-nil.
func MonthLabel(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(constants.MonthLabelFormat)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}
