package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd writes filtered records to a file.
var exportCmd = &cobra.Command{
	Use:   "export <workbook>",
	Short: "Export filtered records to xlsx, csv, json or parquet.",
	Long: `Write every record matching the filters to --output-file.

Accepts the same selection and filters as the records command, but ignores --limit.
The format comes from --output, or from the file extension when --output is text.

Examples:
  # Export one quarter to Excel
  paysheet export payroll.xlsx --period Q1 --output-file q1.xlsx

  # Exits of 2024 as Parquet
  paysheet export payroll.xlsx --period 2024 --category exits --output-file exits.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export records", err)
		}
	},
}
