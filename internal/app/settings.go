package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/output"
)

var (
	settingsName     string
	settingsMaxPower string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the object name and maximum power",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the object name and/or the contracted maximum power",
	Long: `Change the site settings. Only the flags you pass are updated.
The maximum power is given in kilowatts; ',' and '.' are both accepted as
the decimal separator.

Examples:
  wattwatch settings set --name "Country house" --max-power 15
  wattwatch settings set --max-power 7,5`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsName, "name", "", "Object name")
	settingsSetCmd.Flags().StringVar(&settingsMaxPower, "max-power", "", "Maximum contracted power in kW")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	if flagJSON {
		return writeJSON(data.Settings)
	}
	renderSettings(data.Settings)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	nameSet := cmd.Flags().Changed("name")
	powerSet := cmd.Flags().Changed("max-power")
	if !nameSet && !powerSet {
		return fmt.Errorf("nothing to change: pass --name and/or --max-power")
	}

	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	settings, err := applySettingsFlags(data.Settings, nameSet, powerSet)
	if err != nil {
		return err
	}
	data.Settings = settings
	if err := repo.Save(data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if flagJSON {
		return writeJSON(settings)
	}
	renderSettings(settings)
	return nil
}

// applySettingsFlags returns s with the changed flags applied and validated.
func applySettingsFlags(s household.Settings, nameSet, powerSet bool) (household.Settings, error) {
	if nameSet {
		s.ObjectName = strings.TrimSpace(settingsName)
	}
	if powerSet {
		v, err := household.ParseNumber(settingsMaxPower)
		if err != nil {
			return s, fmt.Errorf("max power must be a number: %w", err)
		}
		s.MaxPower = household.Kilowatts(v)
	}
	if err := household.ValidateSettings(s); err != nil {
		return s, err
	}
	return s, nil
}

func renderSettings(s household.Settings) {
	fmt.Println(output.Section("Source data"))
	fmt.Println()
	printField("Object", objectLabel(s.ObjectName))
	printField("Max power (kW)", formatFloat(float64(s.MaxPower)))
}
