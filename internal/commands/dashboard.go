package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/store"
)

// dashboardLimit caps each dashboard list
const dashboardLimit = 5

// Dashboard is everything the dashboard screen shows
type Dashboard struct {
	Greeting       string         `json:"greeting"`
	Date           time.Time      `json:"date"`
	Stats          agenda.Summary `json:"stats"`
	TodayTasks     []models.Task  `json:"todayTasks"`
	UpcomingEvents []models.Event `json:"upcomingEvents"`
	RecentNotes    []models.Note  `json:"recentNotes"`
}

func greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning!"
	case h < 18:
		return "Good afternoon!"
	default:
		return "Good evening!"
	}
}

func buildDashboard(s *store.Store, now time.Time) Dashboard {
	settings := s.Settings()
	tasks, events, notes := s.Tasks(), s.Events(), s.Notes()

	today := agenda.Today(tasks, now)
	if len(today) > dashboardLimit {
		today = today[:dashboardLimit]
	}
	return Dashboard{
		Greeting:       greeting(now),
		Date:           now,
		Stats:          agenda.Summarize(tasks, events, notes, now, settings.WeekStartsOn),
		TodayTasks:     nonNilSlice(today),
		UpcomingEvents: nonNilSlice(agenda.UpcomingEvents(events, now, settings.WeekStartsOn, dashboardLimit)),
		RecentNotes:    agenda.RecentNotes(notes, dashboardLimit),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "home"},
		Short:   "Show today's tasks, this week's events and recent notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			d := buildDashboard(s, a.now())
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), d)
			}
			renderDashboard(cmd.OutOrStdout(), d, s.Settings())
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func renderDashboard(w io.Writer, d Dashboard, settings models.Settings) {
	fmt.Fprintln(w, headingStyle.Render(d.Greeting))
	fmt.Fprintln(w, mutedStyle.Render(d.Date.In(time.Local).Format("Monday, 2 January 2006")))
	fmt.Fprintln(w)

	st := d.Stats
	fmt.Fprintf(w, "Tasks %d (%d done, %.0f%%)   This week %.0f%%   Events %d   Notes %d\n",
		st.TotalTasks, st.CompletedTasks, st.CompletionRate, st.ThisWeekRate, st.TotalEvents, st.TotalNotes)
	if st.OverdueTasks > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d overdue", st.OverdueTasks)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("Today"))
	if len(d.TodayTasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  Nothing due today."))
	}
	for _, t := range d.TodayTasks {
		line := fmt.Sprintf("  %s %s %s  %s", statusMark(t.Status), t.Priority, shortID(t.ID), t.Title)
		if len(t.Tags) > 0 {
			line += "  " + mutedStyle.Render(hashTags(capped(t.Tags, 2)))
		}
		fmt.Fprintln(w, line)
	}

	// Focus mode keeps the screen to what needs doing today
	if settings.FocusMode {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("This week"))
	if len(d.UpcomingEvents) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No events this week."))
	}
	for _, e := range d.UpcomingEvents {
		when := e.StartDate.In(time.Local).Format("Mon 02") + " " + clock(e.StartDate, settings)
		line := fmt.Sprintf("  %s  %s", when, e.Title)
		if loc := e.LocationOrEmpty(); loc != "" {
			line += mutedStyle.Render(" @ " + loc)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Notes"))
	if len(d.RecentNotes) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No notes yet."))
	}
	for _, n := range d.RecentNotes {
		pin := " "
		if n.IsPinned {
			pin = "*"
		}
		preview := truncate(firstLine(n.Content), 40)
		fmt.Fprintf(w, "  %s %s  %s\n", pin, n.Title, mutedStyle.Render(strings.TrimSpace(preview)))
	}
}
