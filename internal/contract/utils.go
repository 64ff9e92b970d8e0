package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/paysheet/schema"
	"go.uber.org/zap"
)

// NotApplicable is shown where a trend has no predecessor to compare against.
const NotApplicable = "n/a"

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	MediumColor = color.New(color.FgYellow)          // MediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgCyan)            // LowColor represents informational / low-priority signal.
	UpColor     = color.New(color.FgGreen)
	DownColor   = color.New(color.FgRed)
	MutedColor  = color.New(color.Faint)
)

// GetColorSeverity returns a colored leave severity label for console output (table).
func GetColorSeverity(sev schema.LeaveSeverity) string {
	text := string(sev)
	switch sev {
	case schema.HighSeverity:
		return HighColor.Sprint(text)
	case schema.MediumSeverity:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetPlainTrend formats a percentage delta with an explicit sign, or n/a when absent.
func GetPlainTrend(pct *float64, precision int) string {
	if pct == nil {
		return NotApplicable
	}
	return fmt.Sprintf("%+.*f%%", precision, *pct)
}

// GetColorTrend returns GetPlainTrend colored by direction.
func GetColorTrend(pct *float64, precision int) string {
	text := GetPlainTrend(pct, precision)
	switch {
	case pct == nil:
		return MutedColor.Sprint(text)
	case *pct > 0:
		return UpColor.Sprint(text)
	case *pct < 0:
		return DownColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Fatal(msg, zap.Error(err))
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".paysheet_cache.db"
	}
	return filepath.Join(homeDir, ".paysheet_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for ingestion run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".paysheet_runs.db"
	}
	return filepath.Join(homeDir, ".paysheet_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
