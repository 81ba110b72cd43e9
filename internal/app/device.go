package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/output"
)

var (
	deviceLocation string
	deviceType     string
	deviceName     string
	devicePower    string
	deviceFrom     int
	deviceTo       int
	deviceYes      bool
)

var deviceCmd = &cobra.Command{
	Use:     "device",
	Aliases: []string{"devices"},
	Short:   "List, add, edit and remove electrical devices",
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices in the order they were added",
	Args:  cobra.NoArgs,
	RunE:  runDeviceList,
}

var deviceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a device",
	Long: `Add a device to the list. Location and type default to the first
catalog entries and the operating window defaults to 2:00–2:00.

Examples:
  wattwatch device add --name Kettle --location Kitchen --type "Household appliance" --power 2000 --from 7 --to 8
  wattwatch device add --name "Floor heating" --type Heating --power 1,5e3 --from 0 --to 24`,
	Args: cobra.NoArgs,
	RunE: runDeviceAdd,
}

var deviceEditCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Change a device; flags that are not passed keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeviceEdit,
}

var deviceRemoveCmd = &cobra.Command{
	Use:     "rm <index>...",
	Aliases: []string{"remove"},
	Short:   "Remove one or more devices",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDeviceRemove,
}

var deviceCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the accepted locations and device types",
	Args:  cobra.NoArgs,
	RunE:  runDeviceCatalog,
}

func init() {
	for _, c := range []*cobra.Command{deviceAddCmd, deviceEditCmd} {
		f := c.Flags()
		f.StringVar(&deviceLocation, "location", household.Locations[0], "Location: "+strings.Join(household.Locations, ", "))
		f.StringVar(&deviceType, "type", household.Types[0], "Type: "+strings.Join(household.Types, ", "))
		f.StringVar(&deviceName, "name", "", "Device name")
		f.StringVar(&devicePower, "power", "0", "Power draw in W")
		f.IntVar(&deviceFrom, "from", household.DefaultHour, "Operating from hour (0-23)")
		f.IntVar(&deviceTo, "to", household.DefaultHour, "Operating until hour (2-24)")
	}
	deviceRemoveCmd.Flags().BoolVarP(&deviceYes, "yes", "y", false, "Do not ask for confirmation")

	deviceCmd.AddCommand(deviceListCmd, deviceAddCmd, deviceEditCmd, deviceRemoveCmd, deviceCatalogCmd)
	rootCmd.AddCommand(deviceCmd)
}

func runDeviceList(cmd *cobra.Command, args []string) error {
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
		return writeJSON(nonNil(data.Devices))
	}
	renderDevices(data.Devices)
	return nil
}

func runDeviceAdd(cmd *cobra.Command, args []string) error {
	dev, err := applyDeviceFlags(cmd.Flags(), household.NewDevice("", 0))
	if err != nil {
		return err
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
	data.AddDevice(dev)
	if err := repo.Save(data); err != nil {
		return fmt.Errorf("saving device: %w", err)
	}

	fmt.Printf("Added %s (#%d)\n", output.StyleBold.Render(dev.Name), len(data.Devices)-1)
	return nil
}

func runDeviceEdit(cmd *cobra.Command, args []string) error {
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
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
	if idx >= len(data.Devices) {
		return fmt.Errorf("device #%d: %w", idx, household.ErrDeviceIndex)
	}

	dev, err := applyDeviceFlags(cmd.Flags(), data.Devices[idx])
	if err != nil {
		return err
	}
	if err := data.ReplaceDevice(idx, dev); err != nil {
		return fmt.Errorf("device #%d: %w", idx, err)
	}
	if err := repo.Save(data); err != nil {
		return fmt.Errorf("saving device: %w", err)
	}

	fmt.Printf("Updated %s (#%d)\n", output.StyleBold.Render(dev.Name), idx)
	return nil
}

func runDeviceRemove(cmd *cobra.Command, args []string) error {
	indices := make([]int, 0, len(args))
	for _, a := range args {
		idx, err := parseIndex(a)
		if err != nil {
			return err
		}
		indices = append(indices, idx)
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

	if !deviceYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Remove %d device(s)?", len(indices))) {
		fmt.Println("Cancelled.")
		return nil
	}

	removed := data.RemoveDevices(indices...)
	if removed == 0 {
		return fmt.Errorf("no devices removed: %w", household.ErrDeviceIndex)
	}
	if err := repo.Save(data); err != nil {
		return fmt.Errorf("saving devices: %w", err)
	}
	fmt.Printf("Removed %d device(s)\n", removed)
	return nil
}

func runDeviceCatalog(cmd *cobra.Command, args []string) error {
	if flagJSON {
		return writeJSON(map[string][]string{
			"locations": household.Locations,
			"types":     household.Types,
		})
	}
	fmt.Println(output.Section("Locations"))
	for _, l := range household.Locations {
		fmt.Printf("  %s\n", l)
	}
	fmt.Println(output.Section("Types"))
	for _, t := range household.Types {
		fmt.Printf("  %s\n", t)
	}
	return nil
}

// applyDeviceFlags overlays the flags that were set on d and validates the
// result.
func applyDeviceFlags(flags *pflag.FlagSet, d household.Device) (household.Device, error) {
	if flags.Changed("location") {
		d.Location = deviceLocation
	}
	if flags.Changed("type") {
		d.Type = deviceType
	}
	if flags.Changed("name") {
		d.Name = strings.TrimSpace(deviceName)
	}
	if flags.Changed("power") {
		v, err := household.ParseNumber(devicePower)
		if err != nil {
			return d, fmt.Errorf("power must be a number: %w", err)
		}
		d.Power = household.Watts(v)
	}
	if flags.Changed("from") {
		d.TimeFrom = deviceFrom
	}
	if flags.Changed("to") {
		d.TimeTo = deviceTo
	}
	if err := household.ValidateDevice(d); err != nil {
		return d, fmt.Errorf("invalid device: %w", err)
	}
	return d, nil
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid device index %q", s)
	}
	return idx, nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func renderDevices(devices []household.Device) {
	fmt.Println(output.Section("Devices"))
	fmt.Println()
	if len(devices) == 0 {
		fmt.Println(" No devices yet. Add one with 'wattwatch device add'.")
		return
	}

	tbl := output.NewTable("#", "Location", "Type", "Name", "Power, W", "Operating hours")
	for i, d := range devices {
		tbl.AddRow(strconv.Itoa(i), d.Location, d.Type, d.Name, formatFloat(float64(d.Power)), formatWindow(d))
	}
	tbl.Print()
}

func nonNil(devices []household.Device) []household.Device {
	if devices == nil {
		return []household.Device{}
	}
	return devices
}
