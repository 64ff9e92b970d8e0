package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:    "text",
		Limit:     DefaultResultLimit,
		Precision: DefaultPrecision,
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "xlsx output", mutate: func(in *ConfigRawInput) { in.Output = "XLSX" }},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "yaml" }, expectError: true},
		{name: "invalid limit (zero)", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "invalid limit (too large)", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "precision zero", mutate: func(in *ConfigRawInput) { in.Precision = 0 }},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "trace" }, expectError: true},
		{name: "invalid log format", mutate: func(in *ConfigRawInput) { in.LogFormat = "xml" }, expectError: true},
		{name: "invalid cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "soon" }, expectError: true},
		{name: "non-positive cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "0s" }, expectError: true},
		{name: "months and period", mutate: func(in *ConfigRawInput) { in.Months = "Jan 2024"; in.Period = "all" }, expectError: true},
		{name: "invalid status", mutate: func(in *ConfigRawInput) { in.Status = "retired" }, expectError: true},
		{name: "invalid category", mutate: func(in *ConfigRawInput) { in.Category = "promotions" }, expectError: true},
		{name: "invalid sort", mutate: func(in *ConfigRawInput) { in.Sort = "salary" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.RunsBackend = "mysql" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, schema.NoneBackend, cfg.RunsBackend)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, LoggerConfig{Level: DefaultLogLevel, Format: ConsoleLogFormat, OutputPath: "stderr"}, cfg.Log)
	assert.True(t, cfg.UseColors)
	assert.Empty(t, cfg.WorkbookPath)
}

func TestProcessAndValidateFilters(t *testing.T) {
	input := validInput()
	input.WorkbookPathStr = "payroll.xlsx"
	input.Months = " Jan 2024, ,2024-02 "
	input.Status = "exited"
	input.Category = "HIGH_RISK"
	input.IDs = "E1,E2"
	input.Sort = "Leaves"
	input.Employee = " E7 "
	input.CacheTTL = "2h"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"Jan 2024", "2024-02"}, cfg.Months)
	assert.Equal(t, schema.ExitedStatus, cfg.Status)
	assert.Equal(t, schema.HighRiskCategory, cfg.Category)
	assert.Equal(t, []string{"E1", "E2"}, cfg.IDs)
	assert.Equal(t, SortByLeaves, cfg.SortBy)
	assert.Equal(t, "E7", cfg.EmployeeID)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.True(t, filepath.IsAbs(cfg.WorkbookPath))
	assert.Equal(t, "payroll.xlsx", filepath.Base(cfg.WorkbookPath))
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "paysheet.db")

	tests := []struct {
		name      string
		cacheConn string
		runsConn  string
		wantErr   bool
	}{
		{"default paths differ", "", "", false},
		{"same explicit file", shared, shared, true},
		{"explicit matches default", GetRunsDBFilePath(), "", true},
		{"different files", shared, filepath.Join(t.TempDir(), "runs.db"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.CacheBackend = "sqlite"
			input.RunsBackend = "sqlite"
			input.CacheDBConnect = tt.cacheConn
			input.RunsDBConnect = tt.runsConn

			err := ProcessAndValidate(&Config{}, input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "different SQLite database files")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite any", schema.SQLiteBackend, "", false},
		{"none any", schema.NoneBackend, "ignored", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/paysheet", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/paysheet", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=paysheet", false},
		{"postgres no host", schema.PostgreSQLBackend, "dbname=paysheet", true},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Months: []string{"Jan 2024"}, IDs: []string{"E1"}}
	clone := cfg.Clone()
	clone.Months[0] = "Feb 2024"
	clone.IDs[0] = "E2"
	assert.Equal(t, "Jan 2024", cfg.Months[0])
	assert.Equal(t, "E1", cfg.IDs[0])
}

func TestRevalidateSelection(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, RevalidateSelection(cfg, "Jan 2024,Feb 2024", ""))
	assert.Equal(t, []string{"Jan 2024", "Feb 2024"}, cfg.Months)

	require.NoError(t, RevalidateSelection(cfg, "", " Q1 "))
	assert.Empty(t, cfg.Months)
	assert.Equal(t, "Q1", cfg.Period)

	assert.Error(t, RevalidateSelection(cfg, "Jan 2024", "all"))
}

func TestRevalidateRecordFilter(t *testing.T) {
	cfg := &Config{IDs: []string{"E1"}, Search: "asha", SortBy: SortByLeaves}
	require.NoError(t, RevalidateRecordFilter(cfg, " Eng ", "active", "growth"))
	assert.Equal(t, "Eng", cfg.Department)
	assert.Equal(t, schema.ActiveStatus, cfg.Status)
	assert.Equal(t, schema.GrowthCategory, cfg.Category)
	assert.Equal(t, []string{"E1"}, cfg.IDs)
	assert.Equal(t, "asha", cfg.Search)

	assert.Error(t, RevalidateRecordFilter(&Config{}, "", "retired", ""))
	assert.Error(t, RevalidateRecordFilter(&Config{}, "", "", "bonus"))
}
