package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/service"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var projectID, userID, baselineID string
	var basisDate time.Time
	var noBaseline, csv, incomplete, interactive bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute an EVM report for a project or member",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if incomplete {
				asOf := basisDate
				if asOf.IsZero() {
					asOf = time.Now().UTC()
				}
				items, err := app.Evm.ListIncomplete(ctx, projectID, asOf)
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatIncomplete(items, asOf))
				return nil
			}

			report, err := app.Evm.Report(ctx, service.ReportRequest{
				ProjectID:  projectID,
				UserID:     userID,
				BasisDate:  basisDate,
				BaselineID: baselineID,
				NoBaseline: noBaseline,
			})
			if err != nil {
				return err
			}

			if csv {
				fmt.Print(report.Result.CSV())
				return nil
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode requires a terminal")
				}
				return runSeriesView(report)
			}

			fmt.Println(formatter.FormatReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&userID, "member", "", "Narrow the report to one member")
	cmd.Flags().Var(newDateValue(&basisDate), "basis", "Basis date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&baselineID, "baseline", "", "Plan against a specific baseline snapshot")
	cmd.Flags().BoolVar(&noBaseline, "no-baseline", false, "Plan against live schedules even when baselines exist")
	cmd.Flags().BoolVar(&csv, "csv", false, "Emit the three curves as CSV")
	cmd.Flags().BoolVar(&incomplete, "incomplete", false, "List open items overdue at the basis date")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the curves in the terminal viewer")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newPortfolioCmd(app *App) *cobra.Command {
	var basisDate time.Time

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "EVM summary across all projects with settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Evm.Portfolio(context.Background(), basisDate)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No projects with EVM settings yet.")
				return nil
			}
			fmt.Print(formatter.FormatPortfolio(rows))
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&basisDate), "basis", "Basis date (YYYY-MM-DD, defaults to today)")

	return cmd
}
