package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/service"
	"github.com/spf13/cobra"
)

// memberSortKeys maps --sort values to row accessors. Sorting is
// descending for value columns so the biggest numbers lead.
var memberSortKeys = map[string]func(*service.MemberRow) float64{
	"bac":  func(r *service.MemberRow) float64 { return r.BAC },
	"pv":   func(r *service.MemberRow) float64 { return r.Metrics.PV },
	"ev":   func(r *service.MemberRow) float64 { return r.Metrics.EV },
	"ac":   func(r *service.MemberRow) float64 { return r.Metrics.AC },
	"spi":  func(r *service.MemberRow) float64 { return r.Metrics.SPI },
	"cpi":  func(r *service.MemberRow) float64 { return r.Metrics.CPI },
	"done": func(r *service.MemberRow) float64 { return r.Metrics.CompletePct },
}

func newMembersCmd(app *App) *cobra.Command {
	var projectID, sortKey string
	var basisDate time.Time

	cmd := &cobra.Command{
		Use:   "members",
		Short: "Per-member EVM table for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Evm.Members(context.Background(), projectID, basisDate)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No assigned work items found.")
				return nil
			}

			if sortKey != "" {
				key, ok := memberSortKeys[sortKey]
				if !ok {
					return fmt.Errorf("unknown sort column %q", sortKey)
				}
				sort.SliceStable(rows, func(i, j int) bool { return key(rows[i]) > key(rows[j]) })
			} else {
				sort.SliceStable(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
			}

			fmt.Print(formatter.FormatMembers(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().Var(newDateValue(&basisDate), "basis", "Basis date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by column (bac|pv|ev|ac|spi|cpi|done)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
