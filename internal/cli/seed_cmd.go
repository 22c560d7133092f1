package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate a demo project",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Seeder.Seed(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Seeded project %s (members: %s)\n",
				result.ProjectID, strings.Join(result.Members, ", "))
			fmt.Printf("Try: evmkit report --project %s\n", result.ProjectID)
			fmt.Printf("     evmkit report --project %s --baseline %s\n", result.ProjectID, result.BaselineID)
			return nil
		},
	}
}
