package cli

import (
	"context"
	"fmt"

	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Per-project EVM configuration",
	}

	cmd.AddCommand(
		newSettingsInitCmd(app),
		newSettingsShowCmd(app),
	)

	return cmd
}

func newSettingsInitCmd(app *App) *cobra.Command {
	var projectID, region string
	var basisHours, multiplier float64
	var ratesEnabled, forecast bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize EVM settings for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := domain.NewEvmSettings(projectID)
			if cmd.Flags().Changed("basis-hours") {
				cfg.BasisHours = basisHours
			}
			if cmd.Flags().Changed("region") {
				cfg.Region = region
			}
			if cmd.Flags().Changed("multiplier") {
				cfg.DefaultRateMultiplier = multiplier
			}
			if cmd.Flags().Changed("rates") {
				cfg.HourlyRateEnabled = ratesEnabled
			}
			if cmd.Flags().Changed("forecast") {
				cfg.ViewForecast = forecast
			}

			if err := app.Settings.Init(context.Background(), cfg); err != nil {
				return err
			}
			fmt.Printf("Initialized EVM settings for project %s\n", projectID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().Float64Var(&basisHours, "basis-hours", domain.DefaultBasisHours, "Working hours per day")
	cmd.Flags().StringVar(&region, "region", "jp", "Holiday region (jp|us|de|none)")
	cmd.Flags().Float64Var(&multiplier, "multiplier", domain.DefaultRateMultiplier, "Fallback rate multiplier for members without a rate record")
	cmd.Flags().BoolVar(&ratesEnabled, "rates", true, "Price actual cost through the hourly-rate table")
	cmd.Flags().BoolVar(&forecast, "forecast", true, "Show forecast lines in reports")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a project's EVM settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Settings.Get(context.Background(), projectID)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Settings — %s", cfg.ProjectID)))
			fmt.Println()
			fmt.Print(formatter.RenderTable(
				[]string{"SETTING", "VALUE"},
				[][]string{
					{"Working hours per day", fmt.Sprintf("%g", cfg.BasisHours)},
					{"Holiday region", cfg.Region},
					{"Hourly-rate pricing", onOff(cfg.HourlyRateEnabled)},
					{"Default rate multiplier", fmt.Sprintf("%g", cfg.DefaultRateMultiplier)},
					{"Forecast view", onOff(cfg.ViewForecast)},
				},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
