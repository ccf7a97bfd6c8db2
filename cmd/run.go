package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/factorysched/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Forecast demand and optimize in one step",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		return withService(func(svc *app.Service) error {
			if err := svc.Forecast(); err != nil {
				return err
			}
			res, err := svc.Optimize(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("run %s: baseline=%.2f optimized=%.2f savings=%.2f (%.1f%%)\n",
				res.RunID, res.Cost.BaselineCost, res.Cost.OptimizedCost,
				res.Cost.SavingsAbs, res.Cost.SavingsPct)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
