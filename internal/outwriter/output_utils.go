package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/paysheet/internal/contract"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// displayPrinter groups thousands for table output.
var displayPrinter = message.NewPrinter(language.English)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// fmtFloat is plain for machine formats; fmtMoney groups thousands and carries the
// configured currency prefix for tables.
func createFormatters(cfg *contract.Config) (fmtFloat, fmtMoney func(float64) string) {
	precision := cfg.Precision
	moneyFmt := "%." + strconv.Itoa(precision) + "f"
	fmtFloat = func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	fmtMoney = func(v float64) string {
		return cfg.Currency + displayPrinter.Sprintf(moneyFmt, v)
	}
	return fmtFloat, fmtMoney
}

// formatCount groups thousands for table output.
func formatCount(n int) string {
	return displayPrinter.Sprintf("%d", n)
}

// formatBool renders flags as yes/no in tables.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
