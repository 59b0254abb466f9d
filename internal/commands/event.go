package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
)

// defaultEventLength applies when an event is added without --end
const defaultEventLength = time.Hour

func newEventCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events", "e"},
		Short:   "Manage calendar events",
	}
	cmd.AddCommand(
		newEventAddCmd(a),
		newEventListCmd(a),
		newEventShowCmd(a),
		newEventEditCmd(a),
		newEventRemoveCmd(a),
	)
	return cmd
}

func addEventFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Start: yyyy-mm-dd hh:mm, dd/mm/yyyy hh:mm, hh:mm (today) or RFC 3339")
	cmd.Flags().String("end", "", "End, same formats as --start")
	cmd.Flags().StringP("location", "l", "", "Location")
	cmd.Flags().StringP("desc", "d", "", "Description")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().StringP("color", "c", "", "Colour: "+strings.Join(models.EventColors, ", ")+" (any value accepted)")
	cmd.Flags().String("every", "", "Recurrence label: daily, weekly, monthly")
}

func newEventAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar event",
		Long: `Add a calendar event.

Start defaults to now and the end to one hour after the start. The end is
not checked against the start.

Example:
  daybook event add "Dentist" --start "2024-03-14 09:30" --end 10:15 --location "Main St"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			flags := cmd.Flags()

			draft := models.EventDraft{
				Title:     strings.Join(args, " "),
				StartDate: now.Truncate(time.Minute),
				Color:     models.EventColors[0],
			}
			if strings.TrimSpace(draft.Title) == "" {
				return errors.New("event title is required")
			}
			if v, _ := flags.GetString("start"); v != "" {
				if draft.StartDate, err = parser.ParseDateTime(v, now); err != nil {
					return err
				}
			}
			draft.EndDate = draft.StartDate.Add(defaultEventLength)
			if v, _ := flags.GetString("end"); v != "" {
				// A bare clock time means that time on the start day
				if draft.EndDate, err = parser.ParseDateTime(v, draft.StartDate); err != nil {
					return err
				}
			}
			if v, _ := flags.GetString("location"); v != "" {
				draft.Location = &v
			}
			draft.Description, _ = flags.GetString("desc")
			tags, _ := flags.GetStringSlice("tags")
			draft.Tags = parser.SplitTags(strings.Join(tags, ","))
			if v, _ := flags.GetString("color"); v != "" {
				draft.Color = v
			}
			if v, _ := flags.GetString("every"); v != "" {
				r, err := parser.ParseRecurrence(v)
				if err != nil {
					return err
				}
				draft.IsRecurring = ptr(true)
				draft.RecurringType = r
			}

			event := s.AddEvent(draft)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s: %s\n", shortID(event.ID), event.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "  When: %s\n", eventSpan(event, s.Settings()))
			return nil
		},
	}
	addEventFlags(cmd)
	return cmd
}

func newEventListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List events, earliest first",
		Long: `List events, earliest first.

Without --from/--to every event is listed. --week and --month limit the list
to the current week or month, honouring the weekStartsOn setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			settings := s.Settings()
			flags := cmd.Flags()

			from := time.Time{}
			to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
			if week, _ := flags.GetBool("week"); week {
				from, to = agenda.Range(agenda.ViewWeek, now, settings.WeekStartsOn)
			}
			if month, _ := flags.GetBool("month"); month {
				from, to = agenda.Range(agenda.ViewMonth, now, settings.WeekStartsOn)
			}
			if v, _ := flags.GetString("from"); v != "" {
				if from, err = parser.ParseDateTime(v, now); err != nil {
					return err
				}
			}
			if v, _ := flags.GetString("to"); v != "" {
				if to, err = parser.ParseDateTime(v, now); err != nil {
					return err
				}
			}

			events := agenda.EventsBetween(s.Events(), from, to)
			if q, _ := flags.GetString("search"); q != "" {
				lower := strings.ToLower(q)
				filtered := events[:0]
				for _, e := range events {
					if e.Matches(lower) {
						filtered = append(filtered, e)
					}
				}
				events = filtered
			}

			if asJSON, _ := flags.GetBool("json"); asJSON {
				if events == nil {
					events = []models.Event{}
				}
				return printJSON(cmd.OutOrStdout(), events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
				return nil
			}
			renderEventTable(cmd.OutOrStdout(), events, settings)
			return nil
		},
	}
	cmd.Flags().String("from", "", "Only events starting at or after this time")
	cmd.Flags().String("to", "", "Only events starting at or before this time")
	cmd.Flags().BoolP("week", "w", false, "Only this week")
	cmd.Flags().BoolP("month", "m", false, "Only this month's calendar grid")
	cmd.Flags().StringP("search", "q", "", "Filter by text")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newEventShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			event, err := s.FindEvent(args[0])
			if err != nil {
				return fmt.Errorf("event %q: %w", args[0], err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), event)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headingStyle.Render(event.Title))
			fmt.Fprintf(w, "  ID: %s\n", event.ID)
			fmt.Fprintf(w, "  When: %s\n", eventSpan(event, s.Settings()))
			if loc := event.LocationOrEmpty(); loc != "" {
				fmt.Fprintf(w, "  Where: %s\n", loc)
			}
			if len(event.Tags) > 0 {
				fmt.Fprintf(w, "  Tags: %s\n", strings.Join(event.Tags, ", "))
			}
			fmt.Fprintf(w, "  Colour: %s\n", event.Color)
			if event.Recurring() {
				fmt.Fprintf(w, "  Repeats: %s\n", event.RecurringType)
			}
			if event.Description != "" {
				fmt.Fprintf(w, "\n%s\n", event.Description)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newEventEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			event, err := s.FindEvent(args[0])
			if err != nil {
				return fmt.Errorf("event %q: %w", args[0], err)
			}
			if !localFlagsChanged(cmd) {
				return errors.New("nothing to change; see 'daybook event edit --help'")
			}

			patch, err := eventPatch(cmd, event, a.now())
			if err != nil {
				return err
			}
			updated, _ := s.UpdateEvent(event.ID, patch)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated event %s: %s\n", shortID(updated.ID), updated.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "  When: %s\n", eventSpan(updated, s.Settings()))
			return nil
		},
	}
	addEventFlags(cmd)
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().Bool("no-location", false, "Remove the location")
	cmd.Flags().Bool("no-repeat", false, "Clear the recurrence flag")
	return cmd
}

func eventPatch(cmd *cobra.Command, current models.Event, now time.Time) (models.EventPatch, error) {
	var patch models.EventPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		if strings.TrimSpace(v) == "" {
			return patch, errors.New("event title cannot be empty")
		}
		patch.Title = &v
	}
	if flags.Changed("desc") {
		v, _ := flags.GetString("desc")
		patch.Description = &v
	}
	start := current.StartDate
	if flags.Changed("start") {
		v, _ := flags.GetString("start")
		t, err := parser.ParseDateTime(v, now)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &t
		start = t
	}
	if flags.Changed("end") {
		v, _ := flags.GetString("end")
		t, err := parser.ParseDateTime(v, start)
		if err != nil {
			return patch, err
		}
		patch.EndDate = &t
	}
	if flags.Changed("location") {
		v, _ := flags.GetString("location")
		patch.Location = &v
	}
	if noLoc, _ := flags.GetBool("no-location"); noLoc {
		patch.ClearLocation = true
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		tags := parser.SplitTags(strings.Join(v, ","))
		patch.Tags = &tags
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		patch.Color = &v
	}
	if flags.Changed("every") {
		v, _ := flags.GetString("every")
		r, err := parser.ParseRecurrence(v)
		if err != nil {
			return patch, err
		}
		patch.IsRecurring = ptr(true)
		patch.RecurringType = &r
	}
	if noRepeat, _ := flags.GetBool("no-repeat"); noRepeat {
		patch.IsRecurring = ptr(false)
	}
	return patch, nil
}

func newEventRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			event, err := s.FindEvent(args[0])
			if err != nil {
				return fmt.Errorf("event %q: %w", args[0], err)
			}
			s.DeleteEvent(event.ID)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s: %s\n", shortID(event.ID), event.Title)
			return nil
		},
	}
}
