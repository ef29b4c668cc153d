package main

import (
	"fmt"
	"io"
	"strings"

	"habits/internal/habit"
	"habits/internal/tracker"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// habitName joins the positional arguments so names with spaces need no quoting.
func habitName(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func findHabit(tr *tracker.Tracker, name string) (*habit.Habit, error) {
	if h, ok := tr.Named(name); ok {
		return h, nil
	}
	return nil, fmt.Errorf("habit %q: %w", name, tracker.ErrNotFound)
}

func newListCmd(c *cli) *cobra.Command {
	var period string
	var done, todo bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}

			var list habit.List
			switch {
			case done:
				list = tr.Completed()
			case todo:
				list = tr.Uncompleted()
			default:
				list = tr.Habits()
			}
			if period != "" {
				p, err := habit.ParsePeriodInput(period)
				if err != nil {
					return err
				}
				list = list.ByPeriod(p)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No habits.")
				return nil
			}
			for _, h := range list {
				mark := " "
				if h.Completed {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s\n", mark, h.DisplayKey())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "only show daily or weekly habits")
	cmd.Flags().BoolVar(&done, "done", false, "only show habits done this period")
	cmd.Flags().BoolVar(&todo, "todo", false, "only show habits still due this period")
	cmd.MarkFlagsMutuallyExclusive("done", "todo")

	return cmd
}

func newAddCmd(c *cli) *cobra.Command {
	var symbol, period string

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add a habit",
		Long: `Add a habit. Missing values are asked for interactively when running
in a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}

			name := habitName(args)
			if name == "" || symbol == "" || period == "" {
				if !c.isInteractive() {
					return fmt.Errorf("add needs NAME, --symbol and --period when not running in a terminal")
				}
				if err := promptNewHabit(tr, &name, &symbol, &period); err != nil {
					return err
				}
			}

			p, err := habit.ParsePeriodInput(period)
			if err != nil {
				return err
			}
			h, err := tr.Add(name, symbol, p)
			if err != nil {
				return err
			}
			if err := tr.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", h.DisplayKey())
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "short symbol shown next to the name")
	cmd.Flags().StringVarP(&period, "period", "p", "", "daily or weekly")

	return cmd
}

// promptNewHabit asks for the values of a new habit that were not given
// on the command line.
func promptNewHabit(tr *tracker.Tracker, name, symbol, period *string) error {
	var fields []huh.Field
	if *name == "" {
		fields = append(fields, huh.NewInput().
			Title("Name").
			Placeholder("Exercise").
			Value(name).
			Validate(func(s string) error {
				s = strings.TrimSpace(s)
				if s == "" {
					return tracker.ErrEmptyName
				}
				if !tr.IsNameUnique(s) {
					return fmt.Errorf("%q already exists, choose another name", s)
				}
				return nil
			}))
	}
	if *symbol == "" {
		fields = append(fields, huh.NewInput().
			Title("Symbol").
			Placeholder("🏃").
			Value(symbol).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return tracker.ErrEmptySymbol
				}
				return nil
			}))
	}
	if *period == "" {
		*period = "daily"
		fields = append(fields, huh.NewSelect[string]().
			Title("Period").
			Options(
				huh.NewOption("Daily", "daily"),
				huh.NewOption("Weekly", "weekly"),
			).
			Value(period))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false).Run()
}

func newCompleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "complete NAME",
		Short: "Mark a habit as done for the current period",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			h, err := findHabit(tr, habitName(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if h.Completed {
				fmt.Fprintf(out, "%s is already done this period (streak %d)\n", h.Name, h.StreakLength)
				return nil
			}
			if err := tr.Complete(h.ID); err != nil {
				return err
			}
			if err := tr.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Completed %s (streak %d)\n", h.Name, h.StreakLength)
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a habit and its history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			h, err := findHabit(tr, habitName(args))
			if err != nil {
				return err
			}

			if !yes {
				if !c.isInteractive() {
					return fmt.Errorf("refusing to delete %q without --yes", h.Name)
				}
				confirmed := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete %s?", h.Name)).
					Description(h.DisplayKey()).
					Affirmative("Delete").
					Negative("Keep").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
					return nil
				}
			}

			tr.Delete(h.ID)
			if err := tr.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", h.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show the details and history of a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			h, err := findHabit(tr, habitName(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, h.Details())
			fmt.Fprintf(out, "Completions: %d\n", len(h.CompletedTimes))
			for _, t := range h.CompletedTimes {
				fmt.Fprintf(out, "  - %s\n", t.Format(habit.TimeLayout))
			}
			return nil
		},
	}
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), tr.Stats())
			return nil
		},
	}
}

func printStats(w io.Writer, s tracker.Stats) {
	title := lipgloss.NewStyle().Bold(true).Underline(true)
	label := lipgloss.NewStyle().Width(32)

	rows := [][2]string{
		{"Total habits", fmt.Sprintf("%d", s.Total)},
		{"Completed this period", fmt.Sprintf("%d", s.Completed)},
		{"Daily habits", fmt.Sprintf("%d", s.Daily)},
		{"Weekly habits", fmt.Sprintf("%d", s.Weekly)},
		{"Current longest streak", s.CurrentLongest},
		{"Current longest daily streak", s.CurrentLongestDaily},
		{"Current longest weekly streak", s.CurrentLongestWeekly},
		{"Longest streak ever", s.LongestEver},
		{"Longest daily streak ever", s.LongestEverDaily},
		{"Longest weekly streak ever", s.LongestEverWeekly},
	}

	fmt.Fprintln(w, title.Render("Habit statistics"))
	for _, r := range rows {
		fmt.Fprintln(w, label.Render(r[0]+":")+r[1])
	}
}
