package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/iocache"
	"github.com/spf13/cobra"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := storeBackend("cache-backend", "cache-db-connect")
	if err != nil {
		return err
	}

	// Initialize caching with the loaded config (no run tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by workbook commands. No workbook is needed.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the aggregation cache",
	Long: `Manage the cache of aggregation results.

Paysheet can cache each aggregation keyed by the workbook contents and the selected
months, so repeated dashboards over the same file skip the fold.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  paysheet cache status --cache-backend sqlite

  # Clear cache
  paysheet cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached aggregations",
	Long: `Delete all cached aggregation results from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache
  paysheet cache clear --cache-backend sqlite

  # Clear MySQL cache (set connection string via env variable)
  PAYSHEET_CACHE_BACKEND=mysql PAYSHEET_CACHE_DB_CONNECT="..." paysheet cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the aggregation cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  # Check cache status
  paysheet cache status --cache-backend sqlite`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetCacheStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
