// Package workbook loads payroll spreadsheets from disk and writes record exports.
package workbook

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/paysheet/schema"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are not Office Open XML spreadsheets.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// supportedExtensions lists the formats excelize can read.
var supportedExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xltx": {},
	".xltm": {},
}

// Open reads the workbook at path.
func Open(ctx context.Context, path string) (schema.Workbook, error) {
	if err := CheckExtension(path); err != nil {
		return schema.Workbook{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Workbook{}, fmt.Errorf("failed to read workbook %s: %w", path, err)
	}
	return Read(ctx, bytes.NewReader(data), filepath.Base(path))
}

// CheckExtension rejects paths whose extension is not a supported spreadsheet type.
func CheckExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %q (expected .xlsx, .xlsm, .xltx or .xltm)", ErrUnsupportedFormat, filepath.Base(path))
	}
	return nil
}

// Read parses workbook bytes from r. The name is only used for reporting.
func Read(ctx context.Context, r io.Reader, name string) (schema.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return schema.Workbook{}, fmt.Errorf("failed to read workbook %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return schema.Workbook{}, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return schema.Workbook{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, name, err)
	}
	defer func() { _ = f.Close() }()

	wb := schema.Workbook{Name: name, Digest: Digest(data)}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return schema.Workbook{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		typed, err := typeCells(f, sheetName, rows)
		if err != nil {
			return schema.Workbook{}, err
		}
		wb.Sheets = append(wb.Sheets, schema.Sheet{Name: sheetName, Rows: toRows(typed)})
	}
	return wb, nil
}

// Digest returns the hex sha256 of the workbook bytes.
func Digest(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// typeCells converts cells stored as numbers into float64 and keeps every
// other cell as its raw text. Numbers written without a type attribute are
// numeric too.
func typeCells(f *excelize.File, sheet string, grid [][]string) ([][]any, error) {
	typed := make([][]any, len(grid))
	for r, cells := range grid {
		typed[r] = make([]any, len(cells))
		for c, cell := range cells {
			typed[r][c] = cell
			if strings.TrimSpace(cell) == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			ct, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s!%s: %w", sheet, ref, err)
			}
			if ct != excelize.CellTypeNumber && ct != excelize.CellTypeUnset {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				typed[r][c] = v
			}
		}
	}
	return typed, nil
}

// toRows keys every data row by the first non-empty row's headers.
// Blank cells and columns without a header are omitted.
func toRows(grid [][]any) []schema.Row {
	headerIdx := -1
	for i, cells := range grid {
		if !isBlank(cells) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	headers := make([]string, len(grid[headerIdx]))
	for i, h := range grid[headerIdx] {
		headers[i] = strings.TrimSpace(cellString(h))
	}

	var rows []schema.Row
	for _, cells := range grid[headerIdx+1:] {
		if isBlank(cells) {
			continue
		}
		row := make(schema.Row, len(cells))
		for i, cell := range cells {
			if i >= len(headers) || headers[i] == "" || cellString(cell) == "" {
				continue
			}
			if _, seen := row[headers[i]]; seen {
				continue
			}
			row[headers[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(cells []any) bool {
	for _, c := range cells {
		if strings.TrimSpace(cellString(c)) != "" {
			return false
		}
	}
	return true
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
