package parser

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// ParseDateTime parses an event start or end. Clock-less inputs mean
// midnight; a bare hh:mm means that time today.
func ParseDateTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date-time is required")
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}
	if clock, err := time.ParseInLocation("15:04", input, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}

	return time.Time{}, fmt.Errorf("invalid date-time %q. Use: yyyy-mm-dd hh:mm, dd/mm/yyyy hh:mm, hh:mm or RFC 3339", input)
}

// FormatClock renders a time of day in the 12 or 24 hour format
func FormatClock(t time.Time, twelveHour bool) string {
	if twelveHour {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}
