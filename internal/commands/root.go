package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/config"
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/logger"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/store"
	"github.com/balkashynov/daybook/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries per-invocation dependencies. Storage is opened on first use
// so help and version never touch it.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	medium db.Medium
	store  *store.Store
	now    func() time.Time
}

func newApp() *app {
	return &app{now: time.Now, log: logger.Nop()}
}

// openMedium connects to the configured backend without loading a store
func (a *app) openMedium(cmd *cobra.Command) (db.Medium, error) {
	if a.medium != nil {
		return a.medium, nil
	}
	medium, err := db.Open(cmd.Context(), *a.cfg)
	if err != nil {
		return nil, err
	}
	a.medium = medium
	return medium, nil
}

// open returns the hydrated store
func (a *app) open(cmd *cobra.Command) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	medium, err := a.openMedium(cmd)
	if err != nil {
		return nil, err
	}
	a.store = store.New(medium,
		store.WithContext(cmd.Context()),
		store.WithLogger(a.log),
		store.WithClock(a.now),
	)
	applyTheme(a.store.Settings().Theme)
	a.log.Debugw("store loaded", "backend", a.cfg.Storage.Backend)
	return a.store, nil
}

// saved turns a failed best-effort write into a command error. The process
// is about to exit, so an in-memory-only change would be lost.
func (a *app) saved() error {
	if err := a.store.LastWriteError(); err != nil {
		return fmt.Errorf("change could not be saved: %w", err)
	}
	return nil
}

// tuiOptions carries settings and config into an interactive screen
func (a *app) tuiOptions() tui.Options {
	opts := tui.Options{Now: a.now(), Log: a.log}
	if a.store != nil {
		opts.FocusMode = a.store.Settings().FocusMode
	}
	if a.cfg != nil {
		opts.AutosaveDelay = a.cfg.Autosave.Delay
	}
	return opts
}

func (a *app) close() {
	if a.medium != nil {
		if err := a.medium.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close storage")
		}
	}
	// Sync on a terminal stderr returns an error we don't care about
	_ = a.log.Close()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daybook",
		Short: "Tasks, calendar and notes in your terminal",
		Long: `daybook is a personal productivity hub for the terminal.
Keep a task board, a calendar of events and a collection of notes in one place,
with a dashboard that pulls them together.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log.WithFields("command", cmd.CommandPath())
			return nil
		},
		// Plain "daybook" opens the configured start page
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if s.Settings().StartPage == models.StartPageTasks {
				tasks := s.Tasks()
				if len(tasks) == 0 {
					fmt.Fprintln(w, "No tasks yet. Use 'daybook task add \"title\"' to create one.")
					return nil
				}
				renderTaskBoard(w, tasks, a.now())
				return nil
			}
			renderDashboard(w, buildDashboard(s, a.now()), s.Settings())
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $data_dir/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: sqlite, files, redis or memory")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for the database and config (default ~/.daybook)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newTaskCmd(a),
		newEventCmd(a),
		newNoteCmd(a),
		newSearchCmd(a),
		newDashboardCmd(a),
		newCalendarCmd(a),
		newSettingsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResetCmd(a),
		newVersionCmd(),
	)
	rootCmd.SetHelpCommand(newHelpCmd())

	return rootCmd
}

// skipConfig replaces the root pre-run for commands that need nothing loaded
func skipConfig(cmd *cobra.Command, args []string) error {
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "daybook %s\ncommit: %s\nbuilt:  %s\n", version, commit, date)
		},
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	a := newApp()
	defer a.close()
	return newRootCmd(a).ExecuteContext(context.Background())
}
