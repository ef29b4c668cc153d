package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"habits/internal/backup"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func (c *cli) backupManager() *backup.Manager {
	return backup.NewManager(c.cfg.HabitFile(), c.cfg.BackupDir(), version)
}

func newBackupCmd(c *cli) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create or list backups of the habit file",
		Long: `Creates a timestamped copy of the habit file in the backups directory
of the data directory. Old backups beyond backup.keep are pruned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := c.backupManager()
			out := cmd.OutOrStdout()
			if list {
				return listBackups(out, manager, time.Now())
			}
			return createBackup(out, manager, c.cfg.Backup.Keep)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")

	return cmd
}

// createBackup creates a new backup, prunes old ones and displays the result.
func createBackup(w io.Writer, manager *backup.Manager, keep int) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}

	fmt.Fprintf(w, "✓ Backup created: %s\n", name)
	fmt.Fprintf(w, "  Habits: %d (%d daily, %d weekly), completions: %d\n",
		info.Stats.Habits, info.Stats.Daily, info.Stats.Weekly, info.Stats.Completions)
	fmt.Fprintf(w, "  Location: %s\n", info.Path)

	if keep > 0 {
		pruned, err := manager.Prune(keep)
		if err != nil {
			return fmt.Errorf("prune backups: %w", err)
		}
		if pruned > 0 {
			fmt.Fprintf(w, "  Pruned %d old backup(s)\n", pruned)
		}
	}
	return nil
}

// listBackups lists all available backups.
func listBackups(w io.Writer, manager *backup.Manager, now time.Time) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups available.")
		fmt.Fprintln(w, "Run 'habits backup' to create one.")
		return nil
	}

	fmt.Fprintln(w, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(w, "  %s  (%s)   Habits: %d, completions: %d\n",
			b.Name, formatAge(now.Sub(b.CreatedAt)), b.Stats.Habits, b.Stats.Completions)
	}
	return nil
}

func newRestoreCmd(c *cli) *cobra.Command {
	var latest, force bool

	cmd := &cobra.Command{
		Use:   "restore [BACKUP_NAME]",
		Short: "Restore the habit file from a backup",
		Long: `Restores the habit file from a backup (see 'habits backup --list').
A safety backup of the current file is created first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := c.backupManager()
			out := cmd.OutOrStdout()

			var name string
			switch {
			case latest:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("list backups: %w", err)
				}
				if len(backups) == 0 {
					return backup.ErrNoBackups
				}
				name = backups[0].Name
			case len(args) == 1:
				name = args[0]
			default:
				return errors.New("no backup specified; use 'habits restore BACKUP_NAME' or 'habits restore --latest'")
			}

			info, err := manager.GetBackup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Habits: %d, completions: %d\n", info.Stats.Habits, info.Stats.Completions)

			if !force {
				if !c.isInteractive() {
					return errors.New("restore overwrites the habit file; pass --force to confirm")
				}
				confirmed := false
				err := huh.NewConfirm().
					Title("This will overwrite your current habit file. Continue?").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			if err := manager.Restore(name); err != nil {
				return fmt.Errorf("restore backup: %w", err)
			}
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "restore from the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}
