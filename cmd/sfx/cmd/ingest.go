package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [report text...]",
	Short: "Parse a pasted trade report and add it to the store",
	Long: `Parse trade report text and merge the trades into the CSV store.

The text is read from --file, from the arguments, or from stdin, in that
order. Each trade is five lines (symbol, action, gain, status and date,
time) or nine whitespace separated tokens when the report was pasted as a
single line. Trades already in the store are skipped.

Examples:
  sfx ingest --year 2025 --provider ReyNova-RYD --file report.txt
  pbpaste | sfx ingest -y 2025 -p LunarEclipse-LKS`,
	RunE: runIngest,
}

var (
	ingestYear     int
	ingestProvider string
	ingestFile     string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVarP(&ingestYear, "year", "y", 0, "year the report dates belong to (required)")
	ingestCmd.Flags().StringVarP(&ingestProvider, "provider", "p", "", "provider tag for every trade (required)")
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "read the report from a file")
	ingestCmd.MarkFlagRequired("year")
	ingestCmd.MarkFlagRequired("provider")
}

func runIngest(cmd *cobra.Command, args []string) error {
	raw, err := readInput(ingestFile, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	svc := ingest.NewService(newStore(), logger)
	svc.Backup = newBackup()
	svc.Providers = cfg.Ingest.Providers

	db, err := openMirror()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		svc.Mirror = db
	}

	res, err := svc.Run(cmd.Context(), raw, ingestYear, ingestProvider)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	return nil
}

// readInput picks the report text from file, then args, then stdin.
func readInput(file string, args []string, stdin io.Reader) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read report: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}
