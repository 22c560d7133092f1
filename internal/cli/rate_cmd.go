package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/spf13/cobra"
)

func newRatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage the hourly-rate table",
	}

	cmd.AddCommand(
		newRatesAddCmd(app),
		newRatesListCmd(app),
		newRatesCloseCmd(app),
		newRatesRemoveCmd(app),
	)

	return cmd
}

func newRatesAddCmd(app *App) *cobra.Command {
	var userID, projectID, effective, end, comment string
	var rate float64
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an hourly-rate record",
		Long: "Creates a rate record for a member. A previous open-ended record for\n" +
			"the same member and scope is closed to the day before the new record\n" +
			"takes effect.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode requires a terminal")
				}
				values, err := runRateForm()
				if err != nil {
					return err
				}
				userID = values.userID
				projectID = values.projectID
				effective = values.effective
				comment = values.comment
				rate, err = strconv.ParseFloat(values.rate, 64)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", values.rate, err)
				}
			}

			effectiveDate, err := parseDate(effective)
			if err != nil {
				return err
			}

			r := &domain.HourlyRateRecord{
				UserID:        userID,
				Rate:          rate,
				EffectiveDate: effectiveDate,
				Comment:       comment,
			}
			if projectID != "" {
				r.ProjectID = &projectID
			}
			if end != "" {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				r.EndDate = &d
			}

			if err := app.Rates.Add(context.Background(), r); err != nil {
				return err
			}
			fmt.Printf("Added rate %.2f for %s effective %s\n",
				r.Rate, r.UserID, r.EffectiveDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Member the rate applies to")
	cmd.Flags().StringVar(&projectID, "project", "", "Project scope (empty for a global rate)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	cmd.Flags().StringVar(&effective, "from", "", "Effective date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "to", "", "End date (YYYY-MM-DD, empty for open-ended)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the fields instead")

	return cmd
}

func newRatesListCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hourly-rate records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Rates.List(context.Background(), userID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No rate records found.")
				return nil
			}
			fmt.Print(formatter.FormatRates(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Restrict to one member")

	return cmd
}

func newRatesCloseCmd(app *App) *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "close ID",
		Short: "Set an end date on an open-ended rate record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endDate := time.Now().UTC()
			if end != "" {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				endDate = d
			}
			if err := app.Rates.Close(context.Background(), args[0], endDate); err != nil {
				return err
			}
			fmt.Printf("Closed rate %s on %s\n", args[0], endDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "on", "", "End date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newRatesRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a rate record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Rates.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed rate %s\n", args[0])
			return nil
		},
	}
}
