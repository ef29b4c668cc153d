package main

import (
	"errors"
	"fmt"

	"habits/internal/ui"

	"github.com/spf13/cobra"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("the habit tracker needs a terminal; run 'habits --help' for non-interactive commands")

// newRootCmd creates the top-level "habits" command and registers all
// subcommands against c.
func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "habits",
		Short: "Track daily and weekly habits and their streaks",
		Long: `habits keeps daily and weekly habits in a plain-text org file and
tracks how long you keep them up.

Run without a command to open the interactive tracker.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(c)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/habits/config.yaml)")
	root.PersistentFlags().StringVar(&c.filePath, "file", "", "habit file (overrides storage.file)")

	root.AddCommand(
		newListCmd(c),
		newAddCmd(c),
		newCompleteCmd(c),
		newDeleteCmd(c),
		newShowCmd(c),
		newStatsCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newSaveAsCmd(c),
		newBackupCmd(c),
		newRestoreCmd(c),
	)

	return root
}

// runTUI opens the interactive tracker.
func runTUI(c *cli) error {
	if !c.isInteractive() {
		return errNoTerminal
	}
	tr, err := c.loadTracker()
	if err != nil {
		return err
	}

	cfg := c.cfg
	c.logger.Info("starting tui", "file", tr.Store().Path(), "habits", tr.Len())
	return ui.Run(tr, ui.NewStyles(cfg), &ui.AppConfig{
		Keys:             &cfg.Keys,
		ConfirmDeletions: cfg.UX.ConfirmDeletions,
		Autosave:         cfg.UX.Autosave,
		RefreshInterval:  cfg.RefreshInterval(),
	})
}
