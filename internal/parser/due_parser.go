package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyRegex      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(hour|hours|h|day|days|d|week|weeks|w)$`)
)

// ParseDueDate parses various due date formats relative to now.
// Supported formats:
// - today, tomorrow
// - dd/mm/yyyy (e.g., "15/12/2024")
// - yyyy-mm-dd and RFC 3339
// - X hours / X days / X weeks (also 3d, 24h, 2w)
//
// Day-granular inputs resolve to the end of that day.
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	switch input {
	case "today":
		due := endOfDay(now)
		return &due, nil
	case "tomorrow":
		due := endOfDay(now.AddDate(0, 0, 1))
		return &due, nil
	}

	if t, err := time.Parse(time.RFC3339, strings.ToUpper(input)); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		due := endOfDay(t)
		return &due, nil
	}
	if dueDate, err := parseDateFormat(input, now.Location()); err == nil {
		return dueDate, nil
	}
	if dueDate, err := parseRelativeTime(input, now); err == nil {
		return dueDate, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: today, tomorrow, dd/mm/yyyy, yyyy-mm-dd, X days, X hours, or X weeks")
}

// parseDateFormat parses dd/mm/yyyy format
func parseDateFormat(input string, loc *time.Location) (*time.Time, error) {
	matches := dmyRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	dueDate := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if dueDate.Day() != day || dueDate.Month() != time.Month(month) || dueDate.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &dueDate, nil
}

// parseRelativeTime parses relative time formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string, now time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "hour", "hours", "h":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "day", "days", "d":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		dueDate := endOfDay(now.AddDate(0, 0, amount))
		return &dueDate, nil

	case "week", "weeks", "w":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := endOfDay(now.AddDate(0, 0, amount*7))
		return &dueDate, nil

	default:
		return nil, fmt.Errorf("unsupported time unit")
	}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FormatDueDate formats a due date for display
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	due := dueDate.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := due.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("%s (in %d days)", dateStr, daysDiff)
	default:
		return dateStr
	}
}
