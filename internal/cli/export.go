package cli

import (
	"github.com/spf13/cobra"

	"currency-watch/internal/app"
)

var (
	exportCSVPath  string
	exportJSONPath string
	exportXLSXPath string
	exportPNGPath  string
	exportPair     string
	exportLimit    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted snapshots as CSV, JSON, XLSX and/or a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			CSVPath:  exportCSVPath,
			JSONPath: exportJSONPath,
			XLSXPath: exportXLSXPath,
			PNGPath:  exportPNGPath,
			Pair:     exportPair,
			Limit:    exportLimit,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportJSONPath, "json", "", "Path to write JSON data")
	exportCmd.Flags().StringVar(&exportXLSXPath, "xlsx", "", "Path to write an XLSX workbook")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write a price chart (requires --pair)")
	exportCmd.Flags().StringVar(&exportPair, "pair", "", "Currency pair for the chart, e.g. EURUSD")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum snapshots or points to export (defaults to config)")
}
