package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/config"
	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/output"
	"github.com/blackwell-systems/wattwatch/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the wattwatch setup is healthy",
	Long: `Run a series of health checks against your wattwatch configuration and
stored household data. Prints a pass/fail line for each check and a summary
of how many checks passed.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	output.ConfigureColor(flagNoColor, cfg.Output.Color)

	var checks []doctorCheck
	checks = append(checks, checkConfigDir(config.ConfigDir()))
	checks = append(checks, checkStorageFile(cfg.Storage))
	checks = append(checks, checkWatchDaemon())

	// The remaining checks need the stored data.
	data, loadCheck := checkStorageLoad(cfg.Storage)
	checks = append(checks, loadCheck)
	if loadCheck.Passed {
		checks = append(checks, checkHouseholdData(data)...)
	}

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		return writeJSON(doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		})
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}

	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkConfigDir verifies that the configuration directory exists.
func checkConfigDir(dir string) doctorCheck {
	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{
			Name:    "Config directory",
			Passed:  false,
			Message: fmt.Sprintf("not found: %s", dir),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:    "Config directory",
			Passed:  false,
			Message: fmt.Sprintf("path exists but is not a directory: %s", dir),
		}
	}
	return doctorCheck{
		Name:    "Config directory",
		Passed:  true,
		Message: dir,
	}
}

// checkStorageFile verifies that the data file exists. A missing file is
// created on first save, so this only hints at an empty setup.
func checkStorageFile(s config.Storage) doctorCheck {
	if _, err := os.Stat(s.Path); err != nil {
		return doctorCheck{
			Name:    "Data file",
			Passed:  false,
			Message: fmt.Sprintf("not found at %s (run 'wattwatch settings set' to create)", s.Path),
		}
	}
	return doctorCheck{
		Name:    "Data file",
		Passed:  true,
		Message: fmt.Sprintf("%s (%s)", s.Path, s.Backend),
	}
}

// checkStorageLoad opens the configured backend and reads everything.
func checkStorageLoad(s config.Storage) (household.AppData, doctorCheck) {
	repo, err := store.New(s.Backend, s.Path)
	if err != nil {
		return household.AppData{}, doctorCheck{
			Name:    "Storage",
			Passed:  false,
			Message: fmt.Sprintf("open error: %v", err),
		}
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return household.AppData{}, doctorCheck{
			Name:    "Storage",
			Passed:  false,
			Message: fmt.Sprintf("read error: %v", err),
		}
	}
	return data, doctorCheck{
		Name:    "Storage",
		Passed:  true,
		Message: fmt.Sprintf("%d device(s) loaded", len(data.Devices)),
	}
}

// checkHouseholdData checks that the data is complete enough to analyze.
func checkHouseholdData(data household.AppData) []doctorCheck {
	var checks []doctorCheck

	if data.Settings.ObjectName == "" {
		checks = append(checks, doctorCheck{
			Name:    "Object name",
			Passed:  false,
			Message: "not set (wattwatch settings set --name ...)",
		})
	} else {
		checks = append(checks, doctorCheck{
			Name:    "Object name",
			Passed:  true,
			Message: data.Settings.ObjectName,
		})
	}

	if data.Settings.MaxPower <= 0 {
		checks = append(checks, doctorCheck{
			Name:    "Maximum power",
			Passed:  false,
			Message: "must be positive for analysis (wattwatch settings set --max-power ...)",
		})
	} else {
		checks = append(checks, doctorCheck{
			Name:    "Maximum power",
			Passed:  true,
			Message: fmt.Sprintf("%s kW", formatFloat(float64(data.Settings.MaxPower))),
		})
	}

	if len(data.Devices) == 0 {
		checks = append(checks, doctorCheck{
			Name:    "Devices",
			Passed:  false,
			Message: "no devices (wattwatch device add ...)",
		})
		return checks
	}

	invalid := 0
	for _, d := range data.Devices {
		if household.ValidateDevice(d) != nil {
			invalid++
		}
	}
	checks = append(checks, doctorCheck{
		Name:    "Devices",
		Passed:  invalid == 0,
		Message: fmt.Sprintf("%d device(s), %d invalid", len(data.Devices), invalid),
	})

	if data.Settings.MaxPower > 0 {
		idx, peak := analysis.LoadByHour(data.Devices).Peak()
		limit := data.Settings.MaxPower.Watts()
		checks = append(checks, doctorCheck{
			Name:   "Peak load",
			Passed: peak < limit,
			Message: fmt.Sprintf("%s kW at %d:00 of %s kW",
				formatFloat(float64(peak.Kilowatts())), analysis.HourAt(idx),
				formatFloat(float64(data.Settings.MaxPower))),
		})
	}
	return checks
}

// checkWatchDaemon checks whether the watch daemon PID file exists and the
// process is running.
func checkWatchDaemon() doctorCheck {
	pid, err := readPID()
	if errors.Is(err, fs.ErrNotExist) {
		return doctorCheck{
			Name:    "Watch daemon",
			Passed:  false,
			Message: "not running (no PID file)",
		}
	}
	if err != nil {
		return doctorCheck{
			Name:    "Watch daemon",
			Passed:  false,
			Message: fmt.Sprintf("invalid PID file: %v", err),
		}
	}
	if !processExists(pid) {
		return doctorCheck{
			Name:    "Watch daemon",
			Passed:  false,
			Message: fmt.Sprintf("PID %d is not running (stale PID file)", pid),
		}
	}
	return doctorCheck{
		Name:    "Watch daemon",
		Passed:  true,
		Message: fmt.Sprintf("running (PID %d)", pid),
	}
}
