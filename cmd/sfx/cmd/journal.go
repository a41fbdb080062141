package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite mirror of the store",
	Long: `Query trade records from the SQLite mirror of the CSV store.

Subcommands:
  sync      - Rebuild the mirror from the CSV store
  day       - List trades reported for a specific day
  provider  - List trades of one provider

Examples:
  sfx journal sync --db sfx.sqlite
  sfx journal day 2025-01-14
  sfx journal provider ReyNova-RYD`,
}

var journalSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the mirror from the CSV store",
	Args:  cobra.NoArgs,
	RunE:  runJournalSync,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades reported for a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalProviderCmd = &cobra.Command{
	Use:   "provider <name>",
	Short: "List trades of one provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalProvider,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalSyncCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalProviderCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite mirror (overrides config)")
}

func openJournal() (*journal.SQLite, error) {
	if journalDBPath != "" {
		cfg.Store.DBPath = journalDBPath
	}
	db, err := openMirror()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("no SQLite mirror configured; set store.db_path or --db")
	}
	return db, nil
}

// syncMirror copies the CSV store into the mirror when one is configured.
func syncMirror(cmd *cobra.Command) error {
	db, err := openMirror()
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	recs, err := newStore().Load()
	if err != nil {
		return err
	}
	return db.Sync(cmd.Context(), recs)
}

func runJournalSync(cmd *cobra.Command, args []string) error {
	db, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := newStore().Load()
	if err != nil {
		return err
	}
	if err := db.Sync(cmd.Context(), recs); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Mirrored %d trades into %s\n", len(recs), cfg.Store.DBPath)
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	day := args[0]
	if _, err := time.Parse(journal.DateLayout, day); err != nil {
		return fmt.Errorf("date: %w", err)
	}

	db, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.ListByDate(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalProvider(cmd *cobra.Command, args []string) error {
	db, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.ListByProvider(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}
