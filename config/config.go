package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/sfx/internal/logging"
)

// Config represents the complete sfx configuration
type Config struct {
	Store  StoreConfig       `json:"store" yaml:"store"`
	Backup BackupConfig      `json:"backup" yaml:"backup"`
	Ingest IngestConfig      `json:"ingest" yaml:"ingest"`
	Export ExportConfig      `json:"export" yaml:"export"`
	Log    logging.LogConfig `json:"log" yaml:"log"`
	Trace  TraceConfig       `json:"trace" yaml:"trace"`
}

// StoreConfig locates the CSV store and its optional SQLite mirror
type StoreConfig struct {
	Path   string `json:"path" yaml:"path"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// BackupConfig contains the undo/redo snapshot folders
type BackupConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	UndoDir string `json:"undo_dir" yaml:"undo_dir"`
	RedoDir string `json:"redo_dir" yaml:"redo_dir"`
}

// IngestConfig contains ingest parameters
type IngestConfig struct {
	// Providers restricts the accepted provider tags. Empty accepts any.
	Providers []string `json:"providers,omitempty" yaml:"providers,omitempty"`
}

// ExportConfig contains the Google Sheets export target
type ExportConfig struct {
	SpreadsheetID   string `json:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`
	Sheet           string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
}

// TraceConfig toggles stdout tracing
type TraceConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Backup.Enabled && (c.Backup.UndoDir == "" || c.Backup.RedoDir == "") {
		return fmt.Errorf("backup undo_dir and redo_dir required when backups are enabled")
	}
	if c.Backup.Enabled && filepath.Clean(c.Backup.UndoDir) == filepath.Clean(c.Backup.RedoDir) {
		return fmt.Errorf("backup undo_dir and redo_dir must differ")
	}
	seen := map[string]bool{}
	for _, p := range c.Ingest.Providers {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("ingest.providers must not contain empty names")
		}
		if seen[p] {
			return fmt.Errorf("duplicate provider: %s", p)
		}
		seen[p] = true
	}
	if c.Export.SpreadsheetID != "" && c.Export.Sheet == "" {
		return fmt.Errorf("export.sheet required when export.spreadsheet_id is set")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "data/sfx_data.csv",
		},
		Backup: BackupConfig{
			Enabled: true,
			UndoDir: "data/backups",
			RedoDir: "data/redo",
		},
		Ingest: IngestConfig{
			Providers: []string{"LunarEclipse-LKS", "ReyNova-RYD"},
		},
		Export: ExportConfig{
			Sheet: "Sheet1",
		},
		Log: logging.DefaultLogConfig(),
	}
}
