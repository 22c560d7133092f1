package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage frozen planned-value snapshots",
	}

	cmd.AddCommand(
		newBaselineCreateCmd(app),
		newBaselineListCmd(app),
		newBaselineShowCmd(app),
	)

	return cmd
}

func newBaselineCreateCmd(app *App) *cobra.Command {
	var projectID, subject string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Freeze the project's current schedules into a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				subject = fmt.Sprintf("baseline %s", time.Now().UTC().Format("2006-01-02"))
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode requires a terminal")
				}
				s, err := runBaselineForm(subject)
				if err != nil {
					return err
				}
				subject = s
			}

			snap, err := app.Baselines.Capture(context.Background(), projectID, subject)
			if err != nil {
				return err
			}
			fmt.Printf("Captured baseline %q [%s] with %d items\n", snap.Subject, snap.ID, len(snap.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&subject, "label", "", "Snapshot label")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the label instead")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newBaselineListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := app.Baselines.List(context.Background(), projectID)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Println("No baselines captured yet.")
				return nil
			}
			fmt.Print(formatter.FormatBaselines(snaps))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newBaselineShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a baseline's frozen items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.Baselines.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatBaselineDetail(snap))
			return nil
		},
	}
}
