package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/output"
)

// nameWidth is how many runes of a device name fit in the ranking table.
const nameWidth = 12

var analyzeTop int

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"analysis"},
	Short:   "Show recommendations, the hourly load curve and the most powerful devices",
	Long: `Analyze the device list against the contracted maximum power.

Prints the recommendations, a bar chart of the load for every hour from
2:00 to 24:00 and a table of the most powerful devices. The chart needs at
least one device and a positive maximum power.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Number of devices to rank (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	topN := cfg.Analysis.TopN
	if cmd.Flags().Changed("top") {
		topN = analyzeTop
	}
	if topN < 0 {
		return fmt.Errorf("--top must not be negative, got %d", topN)
	}

	report := analysis.Analyze(data.Settings, data.Devices, topN)
	if flagJSON {
		return writeJSON(report)
	}

	renderReport(report, cfg.Output.Width)
	return nil
}

func renderReport(r analysis.Report, width int) {
	fmt.Println(output.Section("Analysis: " + objectLabel(r.ObjectName)))
	fmt.Println()
	printField("Max power (kW)", formatFloat(float64(r.MaxPowerKW)))
	printField("Total power (kW)", formatFloat(float64(r.TotalPowerKW)))
	printField("Devices", fmt.Sprintf("%d", r.DeviceCount))

	fmt.Println(output.Section("Recommendations"))
	fmt.Println()
	for _, rec := range r.Recommendations {
		fmt.Printf(" - %s\n", rec)
	}

	fmt.Println(output.Section("Load by hour"))
	fmt.Println()
	renderLoadCurve(r, width)

	fmt.Println(output.Section("Top devices"))
	fmt.Println()
	renderTopDevices(r.TopDevices)
	fmt.Println()
}

// renderLoadCurve draws one bar per hour in kW, scaled so that the larger of
// the peak and the maximum power fills the bar.
func renderLoadCurve(r analysis.Report, width int) {
	if !r.ChartAvailable {
		fmt.Println(output.StyleMuted.Render(" Insufficient data to plot load chart"))
		return
	}

	limit := float64(r.MaxPowerKW)
	scale := limit
	for _, p := range r.LoadByHour {
		scale = max(scale, float64(p.Power.Kilowatts()))
	}

	for _, p := range r.LoadByHour {
		kw := float64(p.Power.Kilowatts())
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render(fmt.Sprintf("%5s", fmt.Sprintf("%d:00", p.Hour))),
			output.LoadBar(kw, scale, limit, width))
	}
	fmt.Printf(" %s\n", output.StyleMuted.Render(fmt.Sprintf("limit %s kW", formatFloat(limit))))
}

func renderTopDevices(devices []household.Device) {
	if len(devices) == 0 {
		fmt.Println(output.StyleMuted.Render(" No devices to rank"))
		return
	}
	tbl := output.NewTable("Name", "Power, W")
	for _, d := range devices {
		tbl.AddRow(output.Truncate(d.Name, nameWidth), formatFloat(float64(d.Power)))
	}
	tbl.Print()
}
