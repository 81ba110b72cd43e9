// Package app contains the Cobra command tree for wattwatch.
package app

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/config"
	"github.com/blackwell-systems/wattwatch/internal/output"
	"github.com/blackwell-systems/wattwatch/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "wattwatch",
	Short: "Household electricity consumption tracker",
	Long: `wattwatch keeps a list of the electrical devices in a home, with their
power draw and operating hours, and compares the resulting load against the
contracted maximum power. It shows the hourly load curve, the most powerful
devices and recommendations for keeping peaks under the limit.

Run 'wattwatch' with no arguments to see a quick summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/wattwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// setup loads the config, applies color preferences and opens the
// configured repository. Callers must close the repository.
func setup() (*config.Config, store.Repository, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	output.ConfigureColor(flagNoColor, cfg.Output.Color)

	if flagVerbose {
		log.Printf("storage: %s at %s", cfg.Storage.Backend, cfg.Storage.Path)
	}

	repo, err := store.New(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	return cfg, repo, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	total := analysis.TotalPower(data.Devices)
	if flagJSON {
		return writeJSON(map[string]any{
			"object_name":    data.Settings.ObjectName,
			"max_power_kw":   data.Settings.MaxPower,
			"total_power_kw": total.Kilowatts(),
			"device_count":   len(data.Devices),
		})
	}

	fmt.Println(output.Section("wattwatch " + appVersion))
	fmt.Println()
	printField("Object", objectLabel(data.Settings.ObjectName))
	printField("Max power (kW)", formatFloat(float64(data.Settings.MaxPower)))
	printField("Total power (kW)", formatFloat(float64(total.Kilowatts())))
	printField("Devices", fmt.Sprintf("%d", len(data.Devices)))
	fmt.Println()
	fmt.Println(output.StyleMuted.Render(" Commands: settings, device, analyze, export, import, serve, mcp, watch, doctor"))
	return nil
}
