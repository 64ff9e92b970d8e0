package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// recordsCmd is the record explorer.
var recordsCmd = &cobra.Command{
	Use:   "records <workbook>",
	Short: "List employee-month records matching filters.",
	Long: `Explore individual employee-month records.

Without --months or --period every month is searched. Filters combine:
--department, --status, --ids, --category, --has-bonus and --search.
Use --sort leaves to put the highest leave first.

Examples:
  # Everyone who joined in 2024
  paysheet records payroll.xlsx --period 2024 --category joiners

  # Engineering records with a bonus, as CSV
  paysheet records payroll.xlsx --department Eng --has-bonus --output csv

  # Search by name
  paysheet records payroll.xlsx --search asha`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRecords(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list records", err)
		}
	},
}
