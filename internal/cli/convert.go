package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	convertAmount float64
	convertFrom   string
	convertTo     string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an amount between currencies using live rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertAmount <= 0 {
			return errors.New("--amount must be greater than zero")
		}
		if convertFrom == "" || convertTo == "" {
			return errors.New("--from and --to are required")
		}

		return getApp().Convert(cmd.Context(), convertAmount, convertFrom, convertTo)
	},
}

func init() {
	convertCmd.Flags().Float64Var(&convertAmount, "amount", 0, "Amount to convert")
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "Source currency code, e.g. EUR")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target currency code, e.g. JPY")
}
