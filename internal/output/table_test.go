package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "hello", 5},
		{"empty", "", 0},
		{"cyrillic", "Чайник", 6},
		{"guillemets", "«Oven»", 6},
		{"ansi color", "\x1b[31mred\x1b[0m", 3},
		{"stacked ansi", "\x1b[1m\x1b[34mblue bold\x1b[0m", 9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visualLen(tc.input))
		})
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "hi        ", pad("hi", 10))
	assert.Equal(t, "hello", pad("hello", 5))
	assert.Equal(t, "toolong", pad("toolong", 3))
	assert.Equal(t, 8, visualLen(pad("Чайник", 8)))
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("#", "Name", "Power, W")
	tbl.AddRow("0", "Чайник", "2000")
	tbl.AddRow("1", "Lamp", "60")

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Power, W")
	assert.Contains(t, lines[1], "─")

	// Columns line up even with multi-byte names.
	assert.Equal(t, visualLen(lines[2]), visualLen(lines[3]))
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_RowShapes(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "B")
	tbl.AddRow("only-a")
	tbl.AddRow("x", "y", "dropped")

	out := tbl.String()
	assert.Contains(t, out, "only-a")
	assert.NotContains(t, out, "dropped")
}

func TestTable_EmptyHeaders(t *testing.T) {
	assert.Equal(t, "", NewTable().Render())
}

func TestSetNoColor_RestoresStyles(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())
	assert.NotContains(t, StyleHeader.Render("test"), "\x1b[")

	SetNoColor(false)
	assert.False(t, IsNoColor())
	assert.Equal(t, ColorPrimary, StyleHeader.GetForeground())
}

func TestLoadBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	bar := LoadBar(5, 10, 8, 10)
	assert.Equal(t, "█████░░░░░ 5.00 kW", bar)

	assert.Equal(t, "░░░░░░░░░░ 0.00 kW", LoadBar(0, 0, 0, 10))
	assert.Equal(t, "██████████ 12.00 kW", LoadBar(12, 10, 8, 10))
	assert.Equal(t, 40+len(" 1.00 kW"), visualLen(LoadBar(1, 2, 0, 0)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Short", Truncate("Short", 12))
	assert.Equal(t, "Стиральная м..", Truncate("Стиральная машина", 12))
	assert.Equal(t, "exact-twelve", Truncate("exact-twelve", 12))
}
