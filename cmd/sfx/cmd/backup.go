package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sfx/backup"
)

var errBackupDisabled = errors.New("backups are disabled in the configuration")

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot, undo and redo store changes",
	Long: `Manage store snapshots.

Subcommands:
  snapshot - Copy the store into the undo folder
  undo     - Restore the newest undo snapshot
  redo     - Restore the newest redo snapshot
  list     - List undo and redo snapshots

Examples:
  sfx backup undo
  sfx backup list`,
}

var backupSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the store into the undo folder",
	Args:  cobra.NoArgs,
	RunE:  runBackupSnapshot,
}

var backupUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the store from the newest undo snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestore(cmd, "undo", (*backup.Manager).Undo)
	},
}

var backupRedoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Restore the store from the newest redo snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestore(cmd, "redo", (*backup.Manager).Redo)
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List undo and redo snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupSnapshotCmd)
	backupCmd.AddCommand(backupUndoCmd)
	backupCmd.AddCommand(backupRedoCmd)
	backupCmd.AddCommand(backupListCmd)
}

func manager() (*backup.Manager, error) {
	m := newBackup()
	if m == nil {
		return nil, errBackupDisabled
	}
	return m, nil
}

func runBackupSnapshot(cmd *cobra.Command, args []string) error {
	m, err := manager()
	if err != nil {
		return err
	}
	path, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if path == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "No store at %s yet, nothing to snapshot\n", m.StorePath)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Snapshot saved: %s\n", path)
	return nil
}

func runRestore(cmd *cobra.Command, op string, restore func(*backup.Manager) (bool, error)) error {
	m, err := manager()
	if err != nil {
		return err
	}
	ok, err := restore(m)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to %s\n", op)
		return nil
	}
	if err := syncMirror(cmd); err != nil {
		logger.Warn().Err(err).Msg("mirror sync failed")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s complete: %s restored\n", op, m.StorePath)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	m, err := manager()
	if err != nil {
		return err
	}
	undos, err := m.Undos()
	if err != nil {
		return fmt.Errorf("list undo: %w", err)
	}
	redos, err := m.Redos()
	if err != nil {
		return fmt.Errorf("list redo: %w", err)
	}

	out := cmd.OutOrStdout()
	printSnapshots(out, "Undo", m.UndoDir, undos)
	printSnapshots(out, "Redo", m.RedoDir, redos)
	return nil
}

func printSnapshots(w io.Writer, title, dir string, infos []backup.Info) {
	fmt.Fprintf(w, "%s (%s): %d snapshot(s)\n", title, dir, len(infos))
	for _, info := range infos {
		fmt.Fprintf(w, "  %s  %8d  %s\n", info.ModTime.Format("2006-01-02 15:04:05"), info.Size, info.Path)
	}
}
