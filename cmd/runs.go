package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/iocache"
	"github.com/huangsam/paysheet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads minimal configuration needed for run history operations.
// This is used by commands that need run store access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := storeBackend("runs-backend", "runs-db-connect")
	if err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no cache for run commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup(cmd *cobra.Command) error {
	if err := bindCommandFlags(cmd); err != nil {
		return err
	}
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := storeBackend("runs-backend", "runs-db-connect")
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(cmd *cobra.Command, _ []string) error {
	return runsMigrateSetup(cmd)
}

// runsCmd focused on ingestion run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage ingestion run history and exports",
	Long: `Manage the history of workbook ingestions.

When enabled with --runs-backend, every command that loads a workbook stores:
- Run metadata (timestamp, duration, workbook name and digest)
- Headline figures per month (headcount, joiners, exits, increments, cost, CTC)

This enables payroll trend tracking across workbook versions and export for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  paysheet runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  paysheet runs export --runs-backend sqlite --output-file runs`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all ingestion run history",
	Long: `Delete all stored runs and month rollups.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  paysheet runs export --runs-backend sqlite --output-file backup
  paysheet runs clear --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, contract.GetRunsDBFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about ingestion run history.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total records ingested across all runs
- Table row counts

Examples:
  # Check run history status
  paysheet runs status --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", fmt.Errorf("run store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs to Parquet format for use with analytics tools.

Writes two files:
- <output-file>.runs.parquet - metadata about each ingestion
- <output-file>.run_months.parquet - headline figures per run and month

Requires: --output-file parameter

Examples:
  # Export all data
  paysheet runs export --runs-backend sqlite --output-file paysheet-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('paysheet-data.run_months.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  paysheet runs migrate --runs-backend sqlite

  # Rollback to initial state
  paysheet runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
