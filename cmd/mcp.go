package cmd

import (
	"github.com/huangsam/paysheet/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd serves the payroll tools over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Paysheet MCP server",
	Long: `Serve paysheet over the Model Context Protocol on stdin/stdout.

Every tool takes the workbook path as an argument, so one server can answer
questions about any number of payroll files:

  summarize_workbook  months, departments, record counts and skipped sheets
  aggregate_period    cost, headcount, department splits and monthly trend
  list_records        employee-month rows filtered by department, status or category
  find_anomalies      stagnant pay, top earners, leave-risk departments, leave outliers
  employee_history    every month of one employee in order

The persistent flags (cache and run-history backends, precision, limit) act as
defaults for each tool call.`,
	Example: `  paysheet mcp
  paysheet mcp --cache-backend sqlite --runs-backend sqlite`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays free for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
