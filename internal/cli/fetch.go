package cli

import (
	"github.com/spf13/cobra"

	"currency-watch/internal/app"
)

var fetchDryRun bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the rate table once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Fetch(cmd.Context(), app.FetchOptions{
			DryRun: fetchDryRun,
		})
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "Skip persistence and alerting")
}
