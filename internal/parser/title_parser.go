package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

// ParsedTask represents a task parsed from quick-add syntax
type ParsedTask struct {
	Title     string
	Tags      []string
	Priority  models.Priority
	DueDate   *time.Time
	Recurring models.RecurringType
	Errors    []string
}

var (
	tagRegex      = regexp.MustCompile(`#([\p{L}0-9_,-]+)`)
	priorityRegex = regexp.MustCompile(`(^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`due:([^\s]+)`)
	everyRegex    = regexp.MustCompile(`every:([^\s]+)`)
)

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #tag1,tag2 +P1 due:tomorrow every:weekly"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		result.Tags = append(result.Tags, SplitTags(match[1])...)
	}
	input = tagRegex.ReplaceAllString(input, "")

	// Extract priority (+P1, +high, +1, etc.)
	if m := priorityRegex.FindStringSubmatch(input); len(m) > 2 {
		if p, err := NormalizePriority(m[2]); err == nil {
			result.Priority = p
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
		input = priorityRegex.ReplaceAllString(input, "$1")
	}

	// Extract due date (due:3days, due:15/12/2024, etc.)
	if m := dueRegex.FindStringSubmatch(input); len(m) > 1 {
		dueDate, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	// Extract recurrence (every:weekly)
	if m := everyRegex.FindStringSubmatch(input); len(m) > 1 {
		if r, err := ParseRecurrence(m[1]); err == nil {
			result.Recurring = r
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
		input = everyRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// SplitTags splits a comma-separated tag field, trimming blanks away
func SplitTags(field string) []string {
	tags := []string{}
	for _, tag := range strings.Split(field, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizePriority converts priority to P1, P2 or P3
func NormalizePriority(priority string) (models.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "p1", "1", "high":
		return models.PriorityP1, nil
	case "p2", "2", "medium", "med":
		return models.PriorityP2, nil
	case "p3", "3", "low":
		return models.PriorityP3, nil
	default:
		return "", fmt.Errorf("invalid priority '%s'. Use: P1, P2, P3 (or high, medium, low)", priority)
	}
}

// ParseStatus accepts todo, in-progress (or doing, progress) and done
func ParseStatus(status string) (models.Status, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "todo":
		return models.StatusTodo, nil
	case "in-progress", "inprogress", "progress", "doing":
		return models.StatusInProgress, nil
	case "done":
		return models.StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status '%s'. Use: todo, in-progress, done", status)
	}
}

// ParseRecurrence accepts daily, weekly or monthly
func ParseRecurrence(s string) (models.RecurringType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return models.RecurringDaily, nil
	case "weekly", "week":
		return models.RecurringWeekly, nil
	case "monthly", "month":
		return models.RecurringMonthly, nil
	default:
		return "", fmt.Errorf("invalid recurrence '%s'. Use: daily, weekly, monthly", s)
	}
}
