package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
	"github.com/balkashynov/daybook/internal/tui"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskTodayCmd(a),
		newTaskShowCmd(a),
		newTaskEditCmd(a),
		newTaskStatusCmd(a, "done", "Mark a task as done", models.StatusDone),
		newTaskStatusCmd(a, "start", "Move a task to in-progress", models.StatusInProgress),
		newTaskStatusCmd(a, "reopen", "Move a task back to todo", models.StatusTodo),
		newTaskRemoveCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task with optional metadata.

Modes:
  Interactive: daybook task add (no arguments, or -i)
  Quick:       daybook task add "Task title" (with optional flags)
  Smart:       daybook task add "Pay rent #home,money +P1 due:tomorrow every:monthly"

Smart parsing syntax:
  #tag1,tag2    Tags (comma-separated or individual)
  +priority     Priority (P1/P2/P3, high/medium/low or 1/2/3)
  due:when      Due date (today, tomorrow, dd/mm/yyyy, yyyy-mm-dd, 3 days, 24h, 2w)
  every:period  Recurrence label (daily, weekly, monthly)

Flags take precedence over smart syntax.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			interactive, _ := cmd.Flags().GetBool("interactive")
			noUI, _ := cmd.Flags().GetBool("no-ui")

			if len(args) == 0 || interactive {
				if noUI {
					return errors.New("a title is required with --no-ui")
				}
				prefilled := map[string]string{"title": strings.Join(args, " ")}
				return runTaskWizard(cmd.OutOrStdout(), a, func() (*models.Task, error) {
					return tui.RunAddTaskTUI(s, prefilled, a.tuiOptions())
				})
			}

			parsed := parser.ParseTitle(strings.Join(args, " "), now)
			if len(parsed.Errors) > 0 {
				if noUI {
					return fmt.Errorf("could not parse task: %s", strings.Join(parsed.Errors, "; "))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
				fmt.Fprintln(cmd.ErrOrStderr(), "Opening interactive mode for confirmation...")
				return runTaskWizard(cmd.OutOrStdout(), a, func() (*models.Task, error) {
					return tui.RunAddTaskTUI(s, prefilledFromParsed(parsed), a.tuiOptions())
				})
			}

			draft, err := taskDraft(cmd, parsed, now)
			if err != nil {
				return err
			}
			if strings.TrimSpace(draft.Title) == "" {
				return errors.New("task title is required")
			}

			task := s.AddTask(draft)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(task.ID), task.Title)
			printTaskDetails(cmd.OutOrStdout(), task, now)
			return nil
		},
	}

	cmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	cmd.Flags().Bool("no-ui", false, "Never open the TUI")
	cmd.Flags().StringP("desc", "d", "", "Description")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().StringP("priority", "p", "", "Priority: P1, P2, P3 (default P2)")
	cmd.Flags().StringP("status", "s", "", "Status: todo, in-progress, done (default todo)")
	cmd.Flags().String("due", "", "Due date: today, tomorrow, dd/mm/yyyy, yyyy-mm-dd, X days, X hours, X weeks")
	cmd.Flags().String("every", "", "Recurrence label: daily, weekly, monthly")
	return cmd
}

// taskDraft merges smart-syntax results with explicit flags
func taskDraft(cmd *cobra.Command, parsed parser.ParsedTask, now time.Time) (models.TaskDraft, error) {
	draft := models.TaskDraft{
		Title:    parsed.Title,
		Tags:     parsed.Tags,
		Priority: parsed.Priority,
		Status:   models.StatusTodo,
		DueDate:  parsed.DueDate,
	}
	if parsed.Recurring != "" {
		draft.IsRecurring = ptr(true)
		draft.RecurringType = parsed.Recurring
	}

	flags := cmd.Flags()
	if desc, _ := flags.GetString("desc"); desc != "" {
		draft.Description = desc
	}
	if tags, _ := flags.GetStringSlice("tags"); len(tags) > 0 {
		draft.Tags = parser.SplitTags(strings.Join(tags, ","))
	}
	if v, _ := flags.GetString("priority"); v != "" {
		p, err := parser.NormalizePriority(v)
		if err != nil {
			return draft, err
		}
		draft.Priority = p
	}
	if v, _ := flags.GetString("status"); v != "" {
		st, err := parser.ParseStatus(v)
		if err != nil {
			return draft, err
		}
		draft.Status = st
	}
	if v, _ := flags.GetString("due"); v != "" {
		due, err := parser.ParseDueDate(v, now)
		if err != nil {
			return draft, fmt.Errorf("error parsing due date: %w", err)
		}
		draft.DueDate = due
	}
	if v, _ := flags.GetString("every"); v != "" {
		r, err := parser.ParseRecurrence(v)
		if err != nil {
			return draft, err
		}
		draft.IsRecurring = ptr(true)
		draft.RecurringType = r
	}

	if draft.Priority == "" {
		draft.Priority = models.PriorityP2
	}
	return draft, nil
}

func prefilledFromParsed(parsed parser.ParsedTask) map[string]string {
	prefilled := map[string]string{"title": parsed.Title}
	if len(parsed.Tags) > 0 {
		prefilled["tags"] = strings.Join(parsed.Tags, ", ")
	}
	if parsed.Priority != "" {
		prefilled["priority"] = string(parsed.Priority)
	}
	if parsed.DueDate != nil {
		prefilled["due_date"] = parsed.DueDate.Format("02/01/2006")
	}
	return prefilled
}

// runTaskWizard runs a TUI session and reports its outcome once the
// terminal is restored
func runTaskWizard(w io.Writer, a *app, run func() (*models.Task, error)) error {
	task, err := run()
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Fprintln(w, "Cancelled.")
		return nil
	}
	if err := a.saved(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved task %s: %s\n", shortID(task.ID), task.Title)
	return nil
}

func printTaskDetails(w io.Writer, t models.Task, now time.Time) {
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(w, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(w, "  Status: %s\n", t.Status)
	if t.DueDate != nil {
		fmt.Fprintf(w, "  Due: %s\n", parser.FormatDueDate(t.DueDate, now))
	}
	if t.Recurring() {
		fmt.Fprintf(w, "  Repeats: %s\n", t.RecurringType)
	}
}

func newTaskListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Long:    "List tasks in insertion order, optionally filtered by status, priority, tags or a search query",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}

			var f agenda.TaskFilter
			if v, _ := cmd.Flags().GetString("status"); v != "" {
				if f.Status, err = parser.ParseStatus(v); err != nil {
					return err
				}
			}
			if v, _ := cmd.Flags().GetString("priority"); v != "" {
				if f.Priority, err = parser.NormalizePriority(v); err != nil {
					return err
				}
			}
			f.Tags, _ = cmd.Flags().GetStringSlice("tags")
			f.Query, _ = cmd.Flags().GetString("search")

			tasks := agenda.FilterTasks(s.Tasks(), f)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), tasks)
			}

			w := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks found. Use 'daybook task add \"title\"' to create one.")
				return nil
			}
			if board, _ := cmd.Flags().GetBool("board"); board {
				renderTaskBoard(w, tasks, a.now())
				return nil
			}
			renderTaskTable(w, tasks, a.now())
			return nil
		},
	}

	cmd.Flags().StringP("status", "s", "", "Filter by status: todo, in-progress, done")
	cmd.Flags().StringP("priority", "p", "", "Filter by priority: P1, P2, P3")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Filter by tags (any of)")
	cmd.Flags().StringP("search", "q", "", "Filter by text")
	cmd.Flags().BoolP("board", "b", false, "Group by status like a board")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newTaskTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show open tasks due today, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			tasks := s.Tasks()
			w := cmd.OutOrStdout()

			if overdue := agenda.Overdue(tasks, now); len(overdue) > 0 {
				fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d overdue", len(overdue))))
				renderTaskTable(w, overdue, now)
				fmt.Fprintln(w)
			}
			today := agenda.Today(tasks, now)
			if len(today) == 0 {
				fmt.Fprintln(w, "Nothing due today.")
				return nil
			}
			renderTaskTable(w, today, now)
			return nil
		},
	}
}

func newTaskShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			task, err := s.FindTask(args[0])
			if err != nil {
				return fmt.Errorf("task %q: %w", args[0], err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), task)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headingStyle.Render(task.Title))
			fmt.Fprintf(w, "  ID: %s\n", task.ID)
			printTaskDetails(w, task, a.now())
			if task.Description != "" {
				fmt.Fprintf(w, "\n%s\n", task.Description)
			}
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("\ncreated %s, updated %s",
				task.CreatedAt.In(time.Local).Format("2006-01-02 15:04"),
				task.UpdatedAt.In(time.Local).Format("2006-01-02 15:04"))))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing task",
		Long: `Edit an existing task.

With flags only the given fields change. Without flags the interactive
editor opens with every field pre-populated.

Usage:
  daybook task edit 3f2a --priority P1 --due tomorrow
  daybook task edit 3f2a --no-due
  daybook task edit 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			task, err := s.FindTask(args[0])
			if err != nil {
				return fmt.Errorf("task %q: %w", args[0], err)
			}
			now := a.now()

			if !localFlagsChanged(cmd) {
				return runTaskWizard(cmd.OutOrStdout(), a, func() (*models.Task, error) {
					return tui.RunEditTaskTUI(s, task, a.tuiOptions())
				})
			}

			patch, err := taskPatch(cmd, now)
			if err != nil {
				return err
			}
			updated, _ := s.UpdateTask(task.ID, patch)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", shortID(updated.ID), updated.Title)
			printTaskDetails(cmd.OutOrStdout(), updated, now)
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("desc", "d", "", "New description")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Replace tags")
	cmd.Flags().StringP("priority", "p", "", "Priority: P1, P2, P3")
	cmd.Flags().StringP("status", "s", "", "Status: todo, in-progress, done")
	cmd.Flags().String("due", "", "Due date")
	cmd.Flags().Bool("no-due", false, "Remove the due date")
	cmd.Flags().String("every", "", "Recurrence label: daily, weekly, monthly")
	cmd.Flags().Bool("no-repeat", false, "Clear the recurrence flag")
	return cmd
}

// taskPatch builds a patch from the flags that were actually given
func taskPatch(cmd *cobra.Command, now time.Time) (models.TaskPatch, error) {
	var patch models.TaskPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		if strings.TrimSpace(v) == "" {
			return patch, errors.New("task title cannot be empty")
		}
		patch.Title = &v
	}
	if flags.Changed("desc") {
		v, _ := flags.GetString("desc")
		patch.Description = &v
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		tags := parser.SplitTags(strings.Join(v, ","))
		patch.Tags = &tags
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := parser.NormalizePriority(v)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		st, err := parser.ParseStatus(v)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		due, err := parser.ParseDueDate(v, now)
		if err != nil {
			return patch, fmt.Errorf("error parsing due date: %w", err)
		}
		if due == nil {
			patch.ClearDueDate = true
		}
		patch.DueDate = due
	}
	if noDue, _ := flags.GetBool("no-due"); noDue {
		patch.ClearDueDate = true
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

func newTaskStatusCmd(a *app, use, short string, status models.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			task, err := s.FindTask(args[0])
			if err != nil {
				return fmt.Errorf("task %q: %w", args[0], err)
			}
			updated, _ := s.UpdateTask(task.ID, models.TaskPatch{Status: &status})
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", statusMark(updated.Status), shortID(updated.ID), updated.Title)
			return nil
		},
	}
}

func newTaskRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			task, err := s.FindTask(args[0])
			if err != nil {
				return fmt.Errorf("task %q: %w", args[0], err)
			}
			s.DeleteTask(task.ID)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}

// localFlagsChanged reports whether any of the command's own flags were
// given, ignoring the global ones
func localFlagsChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed = true
		}
	})
	return changed
}

func ptr[T any](v T) *T { return &v }
