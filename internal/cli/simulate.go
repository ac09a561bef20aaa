package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	simulatePair     string
	simulatePrevious float64
	simulateCurrent  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-change",
	Short: "Simulate a price movement and trigger the alert pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulatePair == "" {
			return errors.New("--pair is required")
		}
		if simulatePrevious <= 0 || simulateCurrent <= 0 {
			return errors.New("--previous and --current must be greater than zero")
		}

		return getApp().SimulateChange(cmd.Context(), simulatePair, simulatePrevious, simulateCurrent)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulatePair, "pair", "", "Currency pair, e.g. EURUSD")
	simulateCmd.Flags().Float64Var(&simulatePrevious, "previous", 0, "Previous price")
	simulateCmd.Flags().Float64Var(&simulateCurrent, "current", 0, "Current price")
}
