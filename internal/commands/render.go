package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
)

// shortIDLen is how much of a UUID the tables show. Any unique prefix is
// accepted back as an argument.
const shortIDLen = 8

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "240"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// applyTheme pins the light/dark palette. The system theme leaves
// detection to the terminal.
func applyTheme(theme models.Theme) {
	switch theme {
	case models.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case models.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// truncate shortens s to width runes, marking the cut with "..."
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func hashTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func statusMark(s models.Status) string {
	switch s {
	case models.StatusDone:
		return "[x]"
	case models.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// clock renders t in local time honouring the 12/24 hour setting
func clock(t time.Time, settings models.Settings) string {
	return parser.FormatClock(t.In(time.Local), settings.TimeFormat == models.TimeFormat12)
}

func eventSpan(e models.Event, settings models.Settings) string {
	start := e.StartDate.In(time.Local)
	end := e.EndDate.In(time.Local)
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return fmt.Sprintf("%s %s-%s", start.Format("Mon 02 Jan"), clock(start, settings), clock(end, settings))
	}
	return fmt.Sprintf("%s %s - %s %s", start.Format("Mon 02 Jan"), clock(start, settings), end.Format("Mon 02 Jan"), clock(end, settings))
}

// renderTaskTable prints tasks in the fixed-width layout used by ls and search
func renderTaskTable(w io.Writer, tasks []models.Task, now time.Time) {
	fmt.Fprintf(w, "%-8s %-3s %-2s %-36s %-16s %s\n", "ID", "ST", "P", "TITLE", "TAGS", "DUE")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = parser.FormatDueDate(t.DueDate, now)
		}
		fmt.Fprintf(w, "%-8s %-3s %-2s %-36s %-16s %s\n",
			shortID(t.ID),
			statusMark(t.Status),
			t.Priority,
			truncate(t.Title, 36),
			truncate(strings.Join(t.Tags, ","), 16),
			due)
	}
}

// renderTaskBoard prints one table per status column
func renderTaskBoard(w io.Writer, tasks []models.Task, now time.Time) {
	columns := agenda.ByStatus(tasks)
	for _, st := range models.Statuses {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s (%d)", st, len(columns[st]))))
		if len(columns[st]) > 0 {
			renderTaskTable(w, columns[st], now)
		}
		fmt.Fprintln(w)
	}
}

func renderEventTable(w io.Writer, events []models.Event, settings models.Settings) {
	fmt.Fprintf(w, "%-8s %-30s %-30s %s\n", "ID", "TITLE", "WHEN", "WHERE")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range events {
		fmt.Fprintf(w, "%-8s %-30s %-30s %s\n",
			shortID(e.ID),
			truncate(e.Title, 30),
			eventSpan(e, settings),
			e.LocationOrEmpty())
	}
}

func renderNoteTable(w io.Writer, notes []models.Note) {
	fmt.Fprintf(w, "%-8s %-2s %-30s %-16s %s\n", "ID", "", "TITLE", "TAGS", "UPDATED")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, n := range notes {
		pin := ""
		if n.IsPinned {
			pin = "*"
		}
		fmt.Fprintf(w, "%-8s %-2s %-30s %-16s %s\n",
			shortID(n.ID),
			pin,
			truncate(n.Title, 30),
			truncate(strings.Join(n.Tags, ","), 16),
			n.UpdatedAt.In(time.Local).Format("2006-01-02 15:04"))
	}
}

// firstLine is a one-line preview of note content
func firstLine(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	return line
}
