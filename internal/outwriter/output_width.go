package outwriter

import (
	"os"
	"strings"

	"github.com/huangsam/paysheet/internal/contract"
	"golang.org/x/term"
	"golang.org/x/text/width"
)

const ellipsis = "..."

// getMaxTableNameWidth calculates the maximum width for employee names in table
// output based on terminal width and the fixed columns of a record table.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// ID + Month + Department + Status + Total + CTC + Leave + Severity with borders/padding
	baseWidth := 100

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// runeWidth is the number of terminal cells r occupies.
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// displayWidth is the number of terminal cells s occupies.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// truncateName shortens s to at most maxWidth terminal cells, marking the cut with an ellipsis.
func truncateName(s string, maxWidth int) string {
	if displayWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return ellipsis[:max(maxWidth, 0)]
	}

	var sb strings.Builder
	budget := maxWidth - len(ellipsis)
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > budget {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	sb.WriteString(ellipsis)
	return sb.String()
}
