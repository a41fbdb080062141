package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/journal"
	"github.com/rustyeddy/sfx/parse"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Normalize stored rows that were saved unparsed",
	Long: `Re-run the field normalizers over the store. Gains that still carry unit
words, "Month DD" dates and 12-hour times are rewritten in canonical form;
rows that are already canonical are kept as they are. Duplicates uncovered
by the repair are removed. The store is snapshotted first.

Example:
  sfx repair --year 2025`,
	Args: cobra.NoArgs,
	RunE: runRepair,
}

var repairYear int

func init() {
	rootCmd.AddCommand(repairCmd)

	repairCmd.Flags().IntVarP(&repairYear, "year", "y", 0, "year for dates stored without one (required)")
	repairCmd.MarkFlagRequired("year")
}

func runRepair(cmd *cobra.Command, args []string) error {
	if repairYear < 1 || repairYear > 9999 {
		return fmt.Errorf("year out of range: %d", repairYear)
	}

	store := newStore()
	recs, err := store.Load()
	if err != nil {
		return err
	}

	fixed := make([]journal.TradeRecord, len(recs))
	changed := 0
	for i, rec := range recs {
		out, ok := parse.Repair(rec, repairYear)
		if ok {
			changed++
		}
		fixed[i] = out
	}

	if changed == 0 && len(journal.Dedup(recs)) == len(recs) {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to repair in %d rows\n", len(recs))
		return nil
	}

	if m := newBackup(); m != nil {
		if _, err := m.Snapshot(); err != nil {
			return fmt.Errorf("snapshot before repair: %w", err)
		}
	}

	removed, err := store.Rewrite(fixed)
	if err != nil {
		return fmt.Errorf("rewrite store: %w", err)
	}
	logger.Info().
		Int("rows", len(recs)).
		Int("repaired", changed).
		Int("duplicates_removed", removed).
		Msg("store repaired")

	if err := syncMirror(cmd); err != nil {
		logger.Warn().Err(err).Msg("mirror sync failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Repaired %d of %d rows, removed %d duplicates\n", changed, len(recs), removed)
	return nil
}
