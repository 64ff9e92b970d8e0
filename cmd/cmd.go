package cmd

import (
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Initialize Viper config before running any command
	cobra.OnInitialize(initConfig)

	// Add all subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("currency", "", "Currency prefix for money columns (e.g., $ or EUR)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.ConsoleLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Aggregation cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached aggregations stay valid (e.g., 24h)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Ingestion run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Period selection is shared by every command that aggregates or filters
	for _, c := range []*cobra.Command{aggregateCmd, anomaliesCmd, recordsCmd, exportCmd} {
		c.Flags().String("months", "", "Comma-separated month labels or keys (e.g., 'Jan 2024,2024-02')")
		c.Flags().String("period", "", "Period preset: latest or all or a year (2024) or a quarter (Q1-Q4)")
	}

	// Record filters are shared by records and export
	for _, c := range []*cobra.Command{recordsCmd, exportCmd} {
		c.Flags().String("department", "", "Only records of this department")
		c.Flags().String("status", "", "Employment status: active or exited")
		c.Flags().String("ids", "", "Comma-separated employee IDs")
		c.Flags().String("category", "", "KPI category: joiners or exits or growth or high_risk")
		c.Flags().Bool("has-bonus", false, "Only records with a non-zero bonus")
		c.Flags().String("search", "", "Case-insensitive match on employee name or ID")
		c.Flags().String("sort", "", "Sort order: leaves (most leave first)")
	}

	// Command flags are bound to Viper in PreRunE since several commands share names
	historyCmd.Flags().String("employee", "", "Employee ID to look up")

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
