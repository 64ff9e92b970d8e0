package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd reports what a workbook contains.
var summaryCmd = &cobra.Command{
	Use:   "summary <workbook>",
	Short: "Show the months, departments and record counts of a workbook.",
	Long: `Ingest a payroll workbook and report what was found.

Every sheet whose name parses as a month ("Jan 2024", "January 2024", "2024-01")
becomes a month; other sheets are skipped and listed in the report.

Shows:
- Latest month and every month in chronological order
- Departments seen across all months
- Records ingested, duplicate rows dropped, rows without an ID

Examples:
  # Summarize a workbook
  paysheet summary payroll.xlsx

  # Machine-readable summary
  paysheet summary payroll.xlsx --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize workbook", err)
		}
	},
}
