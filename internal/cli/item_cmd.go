package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage work items",
	}

	cmd.AddCommand(
		newItemsAddCmd(app),
		newItemsListCmd(app),
		newItemsCloseCmd(app),
	)

	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var projectID, subject, assignee, start, due string
	var estimate float64
	var done int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a work item",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &domain.WorkItem{
				ProjectID: projectID,
				Subject:   subject,
				Assignee:  assignee,
				DoneRatio: done,
			}
			if start != "" {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				w.StartDate = &d
			}
			if due != "" {
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				w.DueDate = &d
			}
			if cmd.Flags().Changed("estimate") {
				w.EstimatedHours = &estimate
			}

			if err := app.Items.Create(context.Background(), w); err != nil {
				return err
			}
			fmt.Printf("Created work item %q [%s]\n", w.Subject, w.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&subject, "subject", "", "Work item subject")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assigned member")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "Estimated hours")
	cmd.Flags().IntVar(&done, "done", 0, "Done ratio (0-100)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Items.List(context.Background(), projectID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No work items found.")
				return nil
			}
			fmt.Print(formatter.FormatWorkItems(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newItemsCloseCmd(app *App) *cobra.Command {
	var closedOn string

	cmd := &cobra.Command{
		Use:   "close ID",
		Short: "Close a work item at 100% done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closedAt := time.Now().UTC()
			if closedOn != "" {
				d, err := parseDate(closedOn)
				if err != nil {
					return err
				}
				closedAt = d
			}
			if err := app.Items.CloseItem(context.Background(), args[0], closedAt); err != nil {
				return err
			}
			fmt.Printf("Closed work item %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&closedOn, "on", "", "Closure date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newLogCmd(app *App) *cobra.Command {
	var userID, projectID, itemID, spentOn, comment string
	var hours float64

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record time spent (a cost entry)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := &domain.CostEntry{
				UserID:    userID,
				ProjectID: projectID,
				Hours:     hours,
				Comment:   comment,
				SpentOn:   time.Now().UTC(),
			}
			if itemID != "" {
				e.WorkItemID = &itemID
			}
			if spentOn != "" {
				d, err := parseDate(spentOn)
				if err != nil {
					return err
				}
				e.SpentOn = d
			}

			if err := app.Items.LogCost(context.Background(), e); err != nil {
				return err
			}
			fmt.Printf("Logged %.1fh for %s on %s\n", e.Hours, e.UserID, e.SpentOn.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Member the time belongs to")
	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier (derived from --item when set)")
	cmd.Flags().StringVar(&itemID, "item", "", "Work item identifier")
	cmd.Flags().StringVar(&spentOn, "on", "", "Date the time was spent (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours spent")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d.UTC(), nil
}
