package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/paysheet/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 10000
	DefaultPrecision   = 1
	MaxPrecision       = 2
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultLogLevel    = "warn"
)

// SortByLeaves orders records by leave taken, highest first.
const SortByLeaves = "leaves"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds the runtime configuration for one command.
// This struct remains the "final, validated" config.
type Config struct {
	WorkbookPath string

	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Currency    string
	Log         LoggerConfig

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	// Period selection. At most one of Months and Period is set.
	Months []string
	Period string

	// Record explorer filters.
	Department string
	Status     schema.Status
	IDs        []string
	Category   schema.Category
	HasBonus   bool
	Search     string
	SortBy     string

	EmployeeID string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	WorkbookPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Currency       string `mapstructure:"currency"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`

	// --- Period flags shared by aggregate, anomalies, records and export ---
	Months string `mapstructure:"months"`
	Period string `mapstructure:"period"`

	// --- Fields from recordsCmd.Flags() ---
	Department string `mapstructure:"department"`
	Status     string `mapstructure:"status"`
	IDs        string `mapstructure:"ids"`
	Category   string `mapstructure:"category"`
	HasBonus   bool   `mapstructure:"has-bonus"`
	Search     string `mapstructure:"search"`
	Sort       string `mapstructure:"sort"`

	// --- Fields from historyCmd.Flags() ---
	Employee string `mapstructure:"employee"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Months = slices.Clone(c.Months)
	clone.IDs = slices.Clone(c.IDs)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := processRecordFilter(cfg, input); err != nil {
		return err
	}
	return resolveWorkbookPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// RevalidateSelection applies a month list and period preset supplied outside the CLI.
func RevalidateSelection(cfg *Config, months, period string) error {
	return processSelection(cfg, &ConfigRawInput{Months: months, Period: period})
}

// RevalidateRecordFilter applies department, status and category overrides supplied
// outside the CLI, keeping the other record filters of cfg.
func RevalidateRecordFilter(cfg *Config, department, status, category string) error {
	input := &ConfigRawInput{
		Department: department,
		Status:     status,
		IDs:        strings.Join(cfg.IDs, ","),
		Category:   category,
		HasBonus:   cfg.HasBonus,
		Search:     cfg.Search,
		Sort:       cfg.SortBy,
		Employee:   cfg.EmployeeID,
	}
	return processRecordFilter(cfg, input)
}

// validateSimpleInputs processes and validates the output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Currency = input.Currency

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}

	level := strings.ToLower(input.LogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	if !slices.Contains(validLogLevels, level) {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	format := strings.ToLower(input.LogFormat)
	switch format {
	case "":
		format = ConsoleLogFormat
	case ConsoleLogFormat, JSONLogFormat:
	default:
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}
	cfg.Log = LoggerConfig{Level: level, Format: format, OutputPath: "stderr"}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// validateBackendConfigs validates cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = backendOrNone(input.CacheBackend)
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	cfg.RunsBackend = backendOrNone(input.RunsBackend)
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		if cachePath == runsPath {
			return fmt.Errorf("cache and run history must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

func backendOrNone(s string) schema.DatabaseBackend {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend
	}
	return schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
}

// processSelection handles the explicit month list and the period preset.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	cfg.Months = SplitList(input.Months)
	cfg.Period = strings.TrimSpace(input.Period)
	if len(cfg.Months) > 0 && cfg.Period != "" {
		return fmt.Errorf("--months and --period cannot be used together")
	}
	return nil
}

// processRecordFilter validates the record explorer flags.
func processRecordFilter(cfg *Config, input *ConfigRawInput) error {
	cfg.Department = strings.TrimSpace(input.Department)
	cfg.IDs = SplitList(input.IDs)
	cfg.HasBonus = input.HasBonus
	cfg.Search = strings.TrimSpace(input.Search)
	cfg.EmployeeID = strings.TrimSpace(input.Employee)

	if input.Status != "" {
		status, ok := matchStatus(input.Status)
		if !ok {
			return fmt.Errorf("invalid status '%s'. must be active, exited", input.Status)
		}
		cfg.Status = status
	}

	if input.Category != "" {
		cfg.Category = schema.Category(strings.ToLower(input.Category))
		if _, ok := schema.ValidCategories[cfg.Category]; !ok {
			return fmt.Errorf("invalid category '%s'. must be joiners, exits, growth, high_risk", input.Category)
		}
	}

	cfg.SortBy = strings.ToLower(strings.TrimSpace(input.Sort))
	if cfg.SortBy != "" && cfg.SortBy != SortByLeaves {
		return fmt.Errorf("invalid sort '%s'. must be %s", input.Sort, SortByLeaves)
	}
	return nil
}

func matchStatus(s string) (schema.Status, bool) {
	for status := range schema.ValidStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, true
		}
	}
	return "", false
}

// resolveWorkbookPath turns the positional workbook argument into an absolute path.
func resolveWorkbookPath(cfg *Config, input *ConfigRawInput) error {
	if input.WorkbookPathStr == "" {
		return nil
	}
	abs, err := filepath.Abs(input.WorkbookPathStr)
	if err != nil {
		return fmt.Errorf("invalid workbook path %q: %w", input.WorkbookPathStr, err)
	}
	cfg.WorkbookPath = filepath.Clean(abs)
	return nil
}
