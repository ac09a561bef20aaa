package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"currency-watch/internal/app"
)

var (
	historyPair  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the persisted time series for one pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyPair == "" {
			return errors.New("--pair is required")
		}
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		return getApp().History(cmd.Context(), app.HistoryOptions{
			Pair:  historyPair,
			Limit: historyLimit,
		})
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyPair, "pair", "", "Currency pair, e.g. EURUSD")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Number of points to display")
}
