package cmd

import (
	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/spf13/cobra"
)

// aggregateCmd computes the KPI snapshot for a period.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <workbook>",
	Short: "Compute cost, headcount and department KPIs for a period.",
	Long: `Aggregate the records of the selected months into a dashboard snapshot.

Reports:
- Total cost and active headcount, with month-over-month trends for a single month
- Joiners, exits and increments in the period
- Cost, leave and active headcount per department
- Bonus paid per department
- A monthly trend across the selected months
- Anomalies (see the anomalies command)

Select months with --months or a preset with --period. Without either,
the latest month is used.

Examples:
  # Latest month
  paysheet aggregate payroll.xlsx

  # A whole year
  paysheet aggregate payroll.xlsx --period 2024

  # Two specific months, cached in SQLite
  paysheet aggregate payroll.xlsx --months "Jan 2024,Feb 2024" --cache-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot aggregate workbook", err)
		}
	},
}
