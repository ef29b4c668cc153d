package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"habits/internal/fsutil"
	"habits/internal/tracker"

	"github.com/spf13/cobra"
)

func newImportCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the habit file with the habits of another file",
		Long: `Reads every habit from FILE and writes them to the configured habit file,
replacing its contents. A backup of the current habit file is created first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.openStoreAt(args[0])
			if err != nil {
				return err
			}
			if !fsutil.Exists(src.Path()) {
				return fmt.Errorf("import %s: file does not exist", src.Path())
			}
			dest, err := c.openStore()
			if err != nil {
				return err
			}
			if sameFile(src.Path(), dest.Path()) {
				return errors.New("cannot import the habit file into itself")
			}

			tr := tracker.New(dest, c.newTrackerOpts()...)
			if err := tr.ReadFrom(src); err != nil {
				return fmt.Errorf("import %s: %w", src.Path(), err)
			}

			out := cmd.OutOrStdout()
			if fsutil.Exists(dest.Path()) && !force {
				name, err := c.backupManager().Create()
				if err != nil {
					return fmt.Errorf("create backup: %w", err)
				}
				fmt.Fprintf(out, "Backed up %s as %s\n", dest.Path(), name)
			}
			if err := tr.SaveAs(dest); err != nil {
				return err
			}
			c.tracker = tr
			fmt.Fprintf(out, "Imported %d habits from %s\n", tr.Len(), src.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the backup of the current habit file")

	return cmd
}

func newSaveAsCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "save-as FILE",
		Short: "Write all habits to another file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := c.openStoreAt(args[0])
			if err != nil {
				return err
			}
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			if sameFile(dest.Path(), tr.Store().Path()) {
				return errors.New("cannot save the habit file onto itself")
			}
			if fsutil.Exists(dest.Path()) && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", dest.Path())
			}
			if err := tr.SaveAs(dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d habits to %s\n", tr.Len(), dest.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
