package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rustyeddy/sfx/backup"
	"github.com/rustyeddy/sfx/config"
	"github.com/rustyeddy/sfx/internal/logging"
	"github.com/rustyeddy/sfx/internal/trace"
	"github.com/rustyeddy/sfx/journal"
)

// defaultConfigFile is read when present and --config is not given.
const defaultConfigFile = "sfx.yaml"

var rootCmd = &cobra.Command{
	Use:   "sfx",
	Short: "Collect signal-provider trade reports into a CSV journal",
	Long: `sfx turns the trade reports pasted from signal providers into rows of a
CSV journal, skipping trades that are already stored.

It provides tools for:
  - Ingesting pasted reports (multi-line or single-line)
  - Undo and redo through store snapshots
  - Repairing rows saved before they could be normalized
  - Per-provider statistics and a Google Sheets export
  - Querying an optional SQLite mirror of the journal`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	cfgFile   string
	storePath string
	debug     bool

	cfg           *config.Config
	logger        = zerolog.Nop()
	traceShutdown func(context.Context) error
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./"+defaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "CSV store path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cfgFile, storePath, debug)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.NewLogger(cfg.Log)

	if cfg.Trace.Enabled {
		shutdown, err := trace.Init(cmd.Context(), version, nil)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		traceShutdown = shutdown
	}

	logger.Debug().
		Str("store", cfg.Store.Path).
		Str("command", cmd.CommandPath()).
		Msg("configuration loaded")
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if traceShutdown == nil {
		return nil
	}
	err := traceShutdown(context.Background())
	traceShutdown = nil
	return err
}

// loadConfig reads path (or the default file when it exists), then applies
// SFX_* environment overrides and the command line flags.
func loadConfig(path, store string, debug bool) (*config.Config, error) {
	c := config.Default()

	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	applyEnv(c)
	if store != "" {
		c.Store.Path = store
	}
	if debug {
		c.Log.Level = "debug"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func applyEnv(c *config.Config) {
	v := viper.New()
	v.SetEnvPrefix("sfx")
	v.AutomaticEnv()

	if s := v.GetString("store"); s != "" {
		c.Store.Path = s
	}
	if s := v.GetString("db"); s != "" {
		c.Store.DBPath = s
	}
	if s := v.GetString("log_level"); s != "" {
		c.Log.Level = s
	}
	if s := v.GetString("spreadsheet_id"); s != "" {
		c.Export.SpreadsheetID = s
	}
	if s := v.GetString("credentials_file"); s != "" {
		c.Export.CredentialsFile = s
	}
	if v.IsSet("trace") {
		c.Trace.Enabled = v.GetBool("trace")
	}
}

func newStore() *journal.Store {
	return journal.NewStore(cfg.Store.Path)
}

// newBackup returns nil when backups are disabled.
func newBackup() *backup.Manager {
	if !cfg.Backup.Enabled {
		return nil
	}
	return backup.NewManager(cfg.Store.Path, cfg.Backup.UndoDir, cfg.Backup.RedoDir, logger)
}

// openMirror returns nil when no database is configured.
func openMirror() (*journal.SQLite, error) {
	if cfg.Store.DBPath == "" {
		return nil, nil
	}
	db, err := journal.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}
