package main

import (
	"fmt"

	"habits/internal/fsutil"
	"habits/internal/reports"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a habit report",
		Long: `Generate a report of every habit, its streaks and the completions of
the last seven days, as Markdown (human-readable) or JSON (machine-readable).`,
		Example: `  habits export
  habits export --format json --output report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "markdown", "md", "json":
			default:
				return fmt.Errorf("invalid format %q, use 'markdown' or 'json'", format)
			}

			tr, err := c.loadTracker()
			if err != nil {
				return err
			}
			report := reports.NewGenerator(tr).Generate()

			var data []byte
			if format == "json" {
				data, err = reports.FormatJSON(report)
				if err != nil {
					return fmt.Errorf("format json: %w", err)
				}
				data = append(data, '\n')
			} else {
				data = []byte(reports.FormatMarkdown(report))
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fsutil.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
