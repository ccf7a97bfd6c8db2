package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/factorysched/app"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast demand from the stored history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			return svc.Forecast()
		})
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}
