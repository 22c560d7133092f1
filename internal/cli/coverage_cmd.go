package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCoverageCmd(app *App) *cobra.Command {
	var projectID, month string

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Monthly working-day coverage per member",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			year, m := now.Year(), now.Month()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q (expected YYYY-MM)", month)
				}
				year, m = parsed.Year(), parsed.Month()
			}

			rows, err := app.Coverage.MonthReport(context.Background(), projectID, m, year)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No assigned work items found.")
				return nil
			}
			fmt.Print(formatter.FormatCoverage(m, year, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&month, "month", "", "Month to report (YYYY-MM, defaults to the current month)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
