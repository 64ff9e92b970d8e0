package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/iocache"
	"github.com/huangsam/paysheet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "paysheet",
	Short:              "Analyze monthly payroll workbooks.",
	Long:               `Paysheet reads a payroll workbook with one sheet per month and reports cost, headcount, joiners, exits, increments and leave risk.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigLocation()

	// Set environment variable prefix
	viper.SetEnvPrefix("PAYSHEET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("currency", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.ConsoleLogFormat)
	viper.SetDefault("cache-backend", schema.NoneBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("runs-backend", schema.NoneBackend)
	viper.SetDefault("runs-db-connect", "")
}

// setConfigLocation points viper at --config or at .paysheet.yaml in . and $HOME.
func setConfigLocation() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".paysheet") // Name of config file (without extension)
	viper.SetConfigType("yaml")      // We'll use YAML format
	viper.AddConfigPath(".")         // Look in the current directory
	viper.AddConfigPath("$HOME")     // Look in the home directory
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.WorkbookPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if err := setupLogger(cfg.Log); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := bindCommandFlags(cmd); err != nil {
		return err
	}
	return sharedSetup(rootCtx, cmd, args)
}

// bindCommandFlags binds the flags of the running command to Viper.
func bindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return nil
}

// setupLogger installs the process logger.
func setupLogger(lc contract.LoggerConfig) error {
	logger, err := contract.NewLogger(lc)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	contract.SetLogger(logger)
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigLocation()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// storeBackend reads a backend setting for the minimal store setups.
func storeBackend(key, connKey string) (schema.DatabaseBackend, string, error) {
	backendStr := strings.ToLower(strings.TrimSpace(viper.GetString(key)))
	connStr := viper.GetString(connKey)

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid %s '%s'. must be sqlite, mysql, postgresql, none", key, backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
