package agenda

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// View is a calendar display mode
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView accepts month, week or day
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewMonth, ViewWeek, ViewDay:
		return View(s), nil
	default:
		return "", fmt.Errorf("invalid calendar view %q (use month, week or day)", s)
	}
}

// calendarAt wraps t for range arithmetic. weekStartsOn is 0 for Sunday
// and 1 for Monday.
func calendarAt(t time.Time, weekStartsOn int) *now.Now {
	cfg := &now.Config{
		WeekStartDay: time.Weekday(weekStartsOn),
		TimeLocation: t.Location(),
	}
	return cfg.With(t)
}

// Range returns the inclusive display window for view around at. A month
// window is padded out to whole weeks, like a month grid.
func Range(view View, at time.Time, weekStartsOn int) (from, to time.Time) {
	c := calendarAt(at, weekStartsOn)
	switch view {
	case ViewMonth:
		first := calendarAt(c.BeginningOfMonth(), weekStartsOn)
		last := calendarAt(c.EndOfMonth(), weekStartsOn)
		return first.BeginningOfWeek(), last.EndOfWeek()
	case ViewWeek:
		return c.BeginningOfWeek(), c.EndOfWeek()
	default:
		return c.BeginningOfDay(), c.EndOfDay()
	}
}

// Days lists the midnight of every day in the view window
func Days(view View, at time.Time, weekStartsOn int) []time.Time {
	from, to := Range(view, at, weekStartsOn)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthGrid is the month view's days, always a multiple of seven
func MonthGrid(at time.Time, weekStartsOn int) []time.Time {
	return Days(ViewMonth, at, weekStartsOn)
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InWeek reports whether t falls in the week containing at
func InWeek(t, at time.Time, weekStartsOn int) bool {
	from, to := Range(ViewWeek, at, weekStartsOn)
	t = t.In(at.Location())
	return !t.Before(from) && !t.After(to)
}

func startOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}
