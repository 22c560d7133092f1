package cli

import (
	"github.com/hinoue/evmkit/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Settings  service.SettingsService
	Items     service.ItemService
	Rates     service.RateService
	Baselines service.BaselineService
	Evm       service.EvmService
	Coverage  service.CoverageService
	Seeder    *service.Seeder

	// IsInteractive reports whether stdin is a terminal; forms and the
	// series viewer refuse to start when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "evmkit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "evmkit",
		Short: "Earned value management for local project data",
	}

	root.AddCommand(
		newProjectCmd(app),
		newSettingsCmd(app),
		newItemsCmd(app),
		newLogCmd(app),
		newRatesCmd(app),
		newBaselineCmd(app),
		newReportCmd(app),
		newPortfolioCmd(app),
		newMembersCmd(app),
		newCoverageCmd(app),
		newSeedCmd(app),
	)

	return root
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}
