package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish the store to a Google spreadsheet",
	Long: `Replace the content of a Google Sheets tab with the whole store, header
included. Authentication uses a service account key file.

Example:
  sfx export --spreadsheet 1AbC... --credentials sa.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportSpreadsheet string
	exportSheet       string
	exportCredentials string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSpreadsheet, "spreadsheet", "", "spreadsheet id (overrides config)")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "sheet name (overrides config)")
	exportCmd.Flags().StringVar(&exportCredentials, "credentials", "", "service account key file (overrides config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	target := cfg.Export
	if exportSpreadsheet != "" {
		target.SpreadsheetID = exportSpreadsheet
	}
	if exportSheet != "" {
		target.Sheet = exportSheet
	}
	if exportCredentials != "" {
		target.CredentialsFile = exportCredentials
	}
	if target.SpreadsheetID == "" || target.Sheet == "" {
		return errors.New("export needs a spreadsheet id and a sheet name")
	}
	if target.CredentialsFile == "" {
		return errors.New("export needs a credentials file")
	}

	key, err := os.ReadFile(target.CredentialsFile)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	recs, err := newStore().Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sheets, err := export.NewSheets(ctx, key, target.SpreadsheetID, target.Sheet)
	if err != nil {
		return err
	}
	if err := sheets.Export(ctx, recs); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger.Info().
		Str("spreadsheet", target.SpreadsheetID).
		Str("sheet", target.Sheet).
		Int("rows", len(recs)).
		Msg("store exported")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to sheet %q\n", len(recs), target.Sheet)
	return nil
}
