package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/output"
)

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printField(label, value string) {
	fmt.Printf(" %s %s\n", output.StyleLabel.Render(label+":"), output.StyleValue.Render(value))
}

// formatFloat prints the shortest representation, so 3 stays "3" and 2.5
// stays "2.5".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func objectLabel(name string) string {
	if name == "" {
		return "(not set)"
	}
	return name
}

func formatWindow(d household.Device) string {
	return fmt.Sprintf("%d:00–%d:00", d.TimeFrom, d.TimeTo)
}
