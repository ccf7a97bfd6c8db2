package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/factorysched/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic plant data into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			return svc.Generate()
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
