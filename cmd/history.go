package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd shows one employee across months.
var historyCmd = &cobra.Command{
	Use:   "history <workbook>",
	Short: "Show every monthly record of one employee.",
	Long: `Print the records of one employee in chronological order.

Exit months appear with a zero payload and the Exited status.

Examples:
  paysheet history payroll.xlsx --employee E1024`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show employee history", err)
		}
	},
}
