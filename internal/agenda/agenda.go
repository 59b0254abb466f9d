// Package agenda holds the read-only queries behind the dashboard, task
// board, calendar and notes screens. Everything is a linear scan.
package agenda

import (
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

// Today returns open tasks due on at's calendar day, most urgent first
func Today(tasks []models.Task, at time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.DueDate != nil && SameDay(at, *t.DueDate) && t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	SortByPriority(out)
	return out
}

// DueOn returns every task due on day, done or not
func DueOn(tasks []models.Task, day time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.DueDate != nil && SameDay(day, *t.DueDate) {
			out = append(out, t)
		}
	}
	return out
}

// Overdue returns open tasks due before the start of at's day
func Overdue(tasks []models.Task, at time.Time) []models.Task {
	today := startOfDay(at)
	var out []models.Task
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Before(today) && t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	return out
}

// OpenWithDueDate returns the tasks the calendar overlays on its days
func OpenWithDueDate(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.DueDate != nil && t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	return out
}

// SortByPriority orders P1 before P2 before P3, keeping ties stable
func SortByPriority(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
	})
}

// ByStatus groups tasks into the board columns
func ByStatus(tasks []models.Task) map[models.Status][]models.Task {
	out := make(map[models.Status][]models.Task, len(models.Statuses))
	for _, s := range models.Statuses {
		out[s] = []models.Task{}
	}
	for _, t := range tasks {
		out[t.Status] = append(out[t.Status], t)
	}
	return out
}

// TaskFilter narrows the task list. Zero fields don't filter.
type TaskFilter struct {
	Query    string
	Tags     []string // any of
	Priority models.Priority
	Status   models.Status
}

// FilterTasks applies f, keeping input order
func FilterTasks(tasks []models.Task, f TaskFilter) []models.Task {
	q := strings.ToLower(f.Query)
	out := []models.Task{}
	for _, t := range tasks {
		if q != "" && !t.Matches(q) {
			continue
		}
		if len(f.Tags) > 0 && !models.HasAnyTag(t.Tags, f.Tags) {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EventsOn returns events starting on day, earliest first
func EventsOn(events []models.Event, day time.Time) []models.Event {
	var out []models.Event
	for _, e := range events {
		if SameDay(day, e.StartDate) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// EventsBetween returns events starting within [from, to], earliest first
func EventsBetween(events []models.Event, from, to time.Time) []models.Event {
	var out []models.Event
	for _, e := range events {
		if !e.StartDate.Before(from) && !e.StartDate.After(to) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// UpcomingEvents returns this week's events, earliest first, at most limit
func UpcomingEvents(events []models.Event, at time.Time, weekStartsOn, limit int) []models.Event {
	from, to := Range(ViewWeek, at, weekStartsOn)
	out := EventsBetween(events, from, to)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortByStart(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
}

// SortNotes orders pinned notes first, then most recently updated
func SortNotes(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

// RecentNotes returns every pinned note followed by the newest unpinned
// notes, filling up to limit. Pinned notes are never dropped.
func RecentNotes(notes []models.Note, limit int) []models.Note {
	sorted := append([]models.Note(nil), notes...)
	SortNotes(sorted)

	out := []models.Note{}
	for _, n := range sorted {
		if n.IsPinned || len(out) < limit {
			out = append(out, n)
		}
	}
	return out
}

// FilterNotes applies a search query and an any-of tag filter, then sorts
func FilterNotes(notes []models.Note, query string, tags []string) []models.Note {
	q := strings.ToLower(query)
	out := []models.Note{}
	for _, n := range notes {
		if q != "" && !n.Matches(q) {
			continue
		}
		if len(tags) > 0 && !models.HasAnyTag(n.Tags, tags) {
			continue
		}
		out = append(out, n)
	}
	SortNotes(out)
	return out
}

// Tags returns the distinct tags in first-seen order
func Tags[T any](items []T, tagsOf func(T) []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, item := range items {
		for _, tag := range tagsOf(item) {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
