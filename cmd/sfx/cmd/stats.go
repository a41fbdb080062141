package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/journal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show gains per provider",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	recs, err := newStore().Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintf(out, "No trades in %s\n", cfg.Store.Path)
		return nil
	}

	fmt.Fprintf(out, "%-20s %7s %6s %6s %8s %9s %8s\n", "PROVIDER", "TRADES", "WINS", "LOSSES", "WIN %", "NET GAIN", "UNPARSED")
	for _, ps := range journal.SummarizeByProvider(recs) {
		name := ps.Provider
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(out, "%-20s %7d %6d %6d %7.1f%% %9d %8d\n",
			name, ps.Trades, ps.Wins, ps.Losses, ps.WinRate()*100, ps.NetGain, ps.Unparsed)
	}
	return nil
}
