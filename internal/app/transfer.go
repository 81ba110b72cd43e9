package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/store"
)

var importYes bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write settings and devices as a JSON document",
	Long: `Export the stored settings and devices in the data.json document format.
Writes to stdout when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace settings and devices with a JSON document",
	Long: `Import a data.json document, replacing everything currently stored.
Devices that fail validation abort the import.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	data, err := repo.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	if len(args) == 0 {
		return store.WriteDocument(cmd.OutOrStdout(), data)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}
	if err := store.WriteDocument(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d device(s) to %s\n", len(data.Devices), args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readImport(args[0])
	if err != nil {
		return err
	}

	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if !importYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
		fmt.Sprintf("Replace stored data with %d device(s) from %s?", len(data.Devices), args[0])) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := repo.Save(data); err != nil {
		return fmt.Errorf("saving data: %w", err)
	}
	fmt.Printf("Imported %d device(s)\n", len(data.Devices))
	return nil
}

// readImport parses and validates a document before anything is replaced.
func readImport(path string) (household.AppData, error) {
	f, err := os.Open(path)
	if err != nil {
		return household.AppData{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := store.ReadDocument(f)
	if err != nil {
		return household.AppData{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := household.ValidateSettings(data.Settings); err != nil {
		return household.AppData{}, fmt.Errorf("%s: settings: %w", path, err)
	}
	for i, d := range data.Devices {
		if err := household.ValidateDevice(d); err != nil {
			return household.AppData{}, fmt.Errorf("%s: device #%d: %w", path, i, err)
		}
	}
	return data, nil
}
