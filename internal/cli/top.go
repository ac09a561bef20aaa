package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"currency-watch/internal/app"
)

var (
	topMetric string
	topCount  int
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Fetch a fresh table and print the best and worst performers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if topCount <= 0 {
			return fmt.Errorf("--count must be greater than zero")
		}

		return getApp().Top(cmd.Context(), app.TopOptions{
			Metric: topMetric,
			Count:  topCount,
		})
	},
}

func init() {
	topCmd.Flags().StringVar(&topMetric, "metric", "percent", "Ranking metric: percent, weekly, monthly, ytd or yoy")
	topCmd.Flags().IntVar(&topCount, "count", 5, "Number of performers per side")
}
