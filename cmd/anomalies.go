package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// anomaliesCmd lists the anomaly detectors' findings only.
var anomaliesCmd = &cobra.Command{
	Use:   "anomalies <workbook>",
	Short: "Find stagnant pay, top earners and leave risks.",
	Long: `Run the anomaly detectors over the selected months.

Detects:
- Stagnant pay: active employees without an increment for 12 or more months
- Top earners: the five highest total salaries
- Leave risk departments: leave per active employee above twice the period length
- Leave outliers: employees whose leave exceeds five days per selected month

Examples:
  # Anomalies for the latest month
  paysheet anomalies payroll.xlsx

  # Anomalies for the first quarter of every year
  paysheet anomalies payroll.xlsx --period Q1`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnomalies(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot detect anomalies", err)
		}
	},
}
