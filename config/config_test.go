package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "data/sfx_data.csv", cfg.Store.Path)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, []string{"LunarEclipse-LKS", "ReyNova-RYD"}, cfg.Ingest.Providers)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing store path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
			errMsg:  "store.path is required",
		},
		{
			name:    "backup without redo dir",
			mutate:  func(c *Config) { c.Backup.RedoDir = "" },
			wantErr: true,
			errMsg:  "backup undo_dir and redo_dir required",
		},
		{
			name: "backup disabled ignores dirs",
			mutate: func(c *Config) {
				c.Backup.Enabled = false
				c.Backup.UndoDir = ""
			},
		},
		{
			name: "same undo and redo dir",
			mutate: func(c *Config) {
				c.Backup.UndoDir = "data/snap"
				c.Backup.RedoDir = "data/snap/"
			},
			wantErr: true,
			errMsg:  "must differ",
		},
		{
			name:    "empty provider name",
			mutate:  func(c *Config) { c.Ingest.Providers = []string{"A", " "} },
			wantErr: true,
			errMsg:  "must not contain empty names",
		},
		{
			name:    "duplicate provider",
			mutate:  func(c *Config) { c.Ingest.Providers = []string{"A", "A"} },
			wantErr: true,
			errMsg:  "duplicate provider: A",
		},
		{
			name: "spreadsheet without sheet",
			mutate: func(c *Config) {
				c.Export.SpreadsheetID = "abc"
				c.Export.Sheet = ""
			},
			wantErr: true,
			errMsg:  "export.sheet required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Store.DBPath = "data/sfx.sqlite"
			cfg.Export.SpreadsheetID = "sheet-123"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Store, loaded.Store)
			assert.Equal(t, cfg.Backup, loaded.Backup)
			assert.Equal(t, cfg.Ingest.Providers, loaded.Ingest.Providers)
			assert.Equal(t, cfg.Export, loaded.Export)
			assert.Equal(t, cfg.Log.Level, loaded.Log.Level)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  path: /tmp/trades.csv\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/trades.csv", cfg.Store.Path)
	assert.Equal(t, "data/backups", cfg.Backup.UndoDir)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  path: \"\"\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.path is required")
}
