package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
)

const calendarCellWidth = 6

func newCalendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar [month|week|day]",
		Aliases: []string{"cal"},
		Short:   "Show events and due tasks as a month, week or day view",
		Long: `Show the calendar.

The month view is a grid padded to whole weeks; days with events carry a '*'
and days with open tasks due carry a '!'. Week and day views list each day's
events and due tasks. Weeks start on the day set by weekStartsOn and times
follow timeFormat.

Example:
  daybook calendar week --date 2024-03-14`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(agenda.ViewMonth), string(agenda.ViewWeek), string(agenda.ViewDay)},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			view := agenda.ViewMonth
			if len(args) == 1 {
				if view, err = agenda.ParseView(args[0]); err != nil {
					return err
				}
			}
			at := a.now()
			if v, _ := cmd.Flags().GetString("date"); v != "" {
				if at, err = parser.ParseDateTime(v, at); err != nil {
					return err
				}
			}

			settings := s.Settings()
			from, to := agenda.Range(view, at, settings.WeekStartsOn)
			events := agenda.EventsBetween(s.Events(), from, to)
			tasks := agenda.OpenWithDueDate(s.Tasks())

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					View   agenda.View    `json:"view"`
					From   time.Time      `json:"from"`
					To     time.Time      `json:"to"`
					Events []models.Event `json:"events"`
					Tasks  []models.Task  `json:"tasks"`
				}{view, from, to, nonNilSlice(events), nonNilSlice(tasksBetween(tasks, from, to))})
			}

			w := cmd.OutOrStdout()
			switch view {
			case agenda.ViewMonth:
				renderMonth(w, at, a.now(), settings, events, tasks)
			default:
				for _, day := range agenda.Days(view, at, settings.WeekStartsOn) {
					renderDay(w, day, settings, events, tasks)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("date", "", "Show the period containing this date (default today)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func tasksBetween(tasks []models.Task, from, to time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if !t.DueDate.Before(from) && !t.DueDate.After(to) {
			out = append(out, t)
		}
	}
	return out
}

// renderMonth prints the month grid followed by the month's events
func renderMonth(w io.Writer, at, now time.Time, settings models.Settings, events []models.Event, tasks []models.Task) {
	grid := agenda.MonthGrid(at, settings.WeekStartsOn)

	fmt.Fprintln(w, headingStyle.Render(at.Format("January 2006")))
	for _, day := range grid[:7] {
		fmt.Fprintf(w, "%*s", calendarCellWidth, day.Weekday().String()[:3])
	}
	fmt.Fprintln(w)

	for i, day := range grid {
		marks := ""
		if len(agenda.EventsOn(events, day)) > 0 {
			marks += "*"
		}
		if len(agenda.DueOn(tasks, day)) > 0 {
			marks += "!"
		}
		label := fmt.Sprintf("%d%s", day.Day(), marks)
		if agenda.SameDay(day, now) {
			label = "[" + label + "]"
		}
		cell := fmt.Sprintf("%*s", calendarCellWidth, label)
		if day.Month() != at.Month() {
			cell = mutedStyle.Render(cell)
		}
		fmt.Fprint(w, cell)
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}

	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, e := range events {
		fmt.Fprintf(w, "  %s %s  %s\n",
			e.StartDate.In(time.Local).Format("Mon 02"),
			clock(e.StartDate, settings),
			e.Title)
	}
}

// renderDay prints one day's events in start order and its open due tasks
func renderDay(w io.Writer, day time.Time, settings models.Settings, events []models.Event, tasks []models.Task) {
	fmt.Fprintln(w, headingStyle.Render(day.Format("Monday 02 January")))

	dayEvents := agenda.EventsOn(events, day)
	dayTasks := agenda.DueOn(tasks, day)
	agenda.SortByPriority(dayTasks)
	if len(dayEvents) == 0 && len(dayTasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  -"))
	}
	for _, e := range dayEvents {
		line := fmt.Sprintf("  %s-%s  %s", clock(e.StartDate, settings), clock(e.EndDate, settings), e.Title)
		if loc := e.LocationOrEmpty(); loc != "" {
			line += mutedStyle.Render(" @ " + loc)
		}
		fmt.Fprintln(w, line)
	}
	for _, t := range dayTasks {
		fmt.Fprintf(w, "  %s %s  %s\n", statusMark(t.Status), t.Priority, t.Title)
	}
	fmt.Fprintln(w)
}
