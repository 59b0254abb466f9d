package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of everything",
		Long: `Write a JSON backup of tasks, events, notes and settings to stdout or,
with -o, to a file. The file is replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			backup := s.Export()

			out, _ := cmd.Flags().GetString("output")
			if out == "" || out == "-" {
				return store.WriteBackup(cmd.OutOrStdout(), backup)
			}

			var buf strings.Builder
			if err := store.WriteBackup(&buf, backup); err != nil {
				return err
			}
			if err := atomic.WriteFile(out, strings.NewReader(buf.String())); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks, %d events and %d notes to %s\n",
				len(backup.Tasks), len(backup.Events), len(backup.Notes), out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a backup",
		Long: `Replace all tasks, events, notes and settings with the contents of a
backup written by 'daybook export'. Use - to read stdin.

The backup must contain all four sections; otherwise nothing is changed.
Comments and trailing commas are tolerated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			medium, err := a.openMedium(cmd)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open backup: %w", err)
				}
				defer f.Close()
				r = f
			}

			if err := store.Import(cmd.Context(), medium, r); err != nil {
				if errors.Is(err, store.ErrInvalidBackup) {
					return fmt.Errorf("%w; nothing was changed", err)
				}
				return err
			}
			a.log.Infow("backup imported", "file", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "Backup imported.")
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data",
		Long: `Delete all tasks, events, notes and settings. This cannot be undone.
You are asked to confirm unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, "Delete ALL tasks, events, notes and settings? Type 'yes' to continue: ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return nil
			}

			medium, err := a.openMedium(cmd)
			if err != nil {
				return err
			}
			if err := store.Reset(cmd.Context(), medium); err != nil {
				return err
			}
			a.log.Infow("all data reset")
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks on stderr and reads one line from stdin
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y"
}
