package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/models"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(newSettingsShowCmd(a), newSettingsSetCmd(a))
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			settings := s.Settings()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), settings)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "theme:        %s\n", settings.Theme)
			fmt.Fprintf(w, "startPage:    %s\n", settings.StartPage)
			fmt.Fprintf(w, "weekStartsOn: %d (%s)\n", settings.WeekStartsOn, weekdayName(settings.WeekStartsOn))
			fmt.Fprintf(w, "timeFormat:   %s\n", settings.TimeFormat)
			fmt.Fprintf(w, "focusMode:    %t\n", settings.FocusMode)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func weekdayName(n int) string {
	if n == 0 {
		return "Sunday"
	}
	return "Monday"
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Change one or more settings",
		Long: `Change one or more settings. Unmentioned settings keep their values.

Keys:
  theme         light, dark or system
  startPage     dashboard or tasks (what plain 'daybook' shows)
  weekStartsOn  0/sunday or 1/monday
  timeFormat    12 or 24
  focusMode     true or false

Example:
  daybook settings set theme=dark weekStartsOn=sunday`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			patch, err := parseSettingsArgs(args)
			if err != nil {
				return err
			}

			candidate := s.Settings()
			patch.Apply(&candidate)
			if err := candidate.Validate(); err != nil {
				return err
			}

			s.UpdateSettings(patch)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated.")
			return nil
		},
	}
}

// parseSettingsArgs turns key=value pairs into a patch. Keys are matched
// case-insensitively and may use dashes, e.g. week-starts-on.
func parseSettingsArgs(args []string) (models.SettingsPatch, error) {
	var patch models.SettingsPatch
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return patch, fmt.Errorf("expected key=value, got %q", arg)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "")) {
		case "theme":
			v := models.Theme(strings.ToLower(value))
			patch.Theme = &v
		case "startpage":
			v := models.StartPage(strings.ToLower(value))
			patch.StartPage = &v
		case "weekstartson", "weekstart":
			var n int
			switch strings.ToLower(value) {
			case "sunday", "sun":
				n = 0
			case "monday", "mon":
				n = 1
			default:
				parsed, err := strconv.Atoi(value)
				if err != nil {
					return patch, fmt.Errorf("invalid weekStartsOn %q (use 0, 1, sunday or monday)", value)
				}
				n = parsed
			}
			patch.WeekStartsOn = &n
		case "timeformat":
			v := models.TimeFormat(strings.TrimSuffix(strings.ToLower(value), "h"))
			patch.TimeFormat = &v
		case "focusmode", "focus":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("invalid focusMode %q (use true or false)", value)
			}
			patch.FocusMode = &b
		default:
			return patch, fmt.Errorf("unknown setting %q", key)
		}
	}
	return patch, nil
}
