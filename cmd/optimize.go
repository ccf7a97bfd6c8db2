package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/factorysched/app"
)

var optimizeWait bool

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Solve the production schedule over the stored inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		return withService(func(svc *app.Service) error {
			res, err := svc.Optimize(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("run %s: baseline=%.2f optimized=%.2f savings=%.2f (%.1f%%)\n",
				res.RunID, res.Cost.BaselineCost, res.Cost.OptimizedCost,
				res.Cost.SavingsAbs, res.Cost.SavingsPct)
			if optimizeWait {
				// Keep the metrics endpoint up until interrupted.
				return svc.ServeMetrics(ctx)
			}
			return nil
		})
	},
}

func init() {
	optimizeCmd.Flags().BoolVar(&optimizeWait, "wait", false, "keep serving metrics until interrupted")
	rootCmd.AddCommand(optimizeCmd)
}
