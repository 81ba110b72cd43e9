package output

import (
	"fmt"
	"strings"
)

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// LoadBar renders value as a horizontal bar scaled against scale, coloured
// by how close value is to limit. A non-positive limit disables colouring.
// Example: "██████░░░░░░ 3.2 kW"
func LoadBar(value, scale, limit float64, width int) string {
	if width <= 0 {
		width = 40
	}
	filled := 0
	if scale > 0 {
		filled = int((value / scale) * float64(width))
	}
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var styled string
	switch {
	case limit <= 0:
		styled = StyleMuted.Render(bar)
	case value >= limit:
		styled = StyleError.Render(bar)
	case value >= 0.8*limit:
		styled = StyleWarning.Render(bar)
	default:
		styled = StyleSuccess.Render(bar)
	}

	return fmt.Sprintf("%s %s", styled, StyleMuted.Render(fmt.Sprintf("%.2f kW", value)))
}

// Truncate shortens s to n runes followed by "..".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + ".."
}
