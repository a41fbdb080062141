package backup

import (
	"github.com/rs/zerolog"
)

// Manager binds the backup operations to one store and its two folders.
type Manager struct {
	StorePath string
	UndoDir   string
	RedoDir   string
	Logger    zerolog.Logger
}

func NewManager(storePath, undoDir, redoDir string, log zerolog.Logger) *Manager {
	return &Manager{
		StorePath: storePath,
		UndoDir:   undoDir,
		RedoDir:   redoDir,
		Logger:    log,
	}
}

// Snapshot saves the current store into the undo folder.
func (m *Manager) Snapshot() (string, error) {
	path, err := Snapshot(m.StorePath, m.UndoDir)
	if err != nil {
		return "", err
	}
	if path == "" {
		m.Logger.Debug().Str("store", m.StorePath).Msg("no store yet, nothing to snapshot")
	} else {
		m.Logger.Info().Str("snapshot", path).Msg("snapshot created")
	}
	return path, nil
}

func (m *Manager) Undo() (bool, error) {
	ok, err := Undo(m.StorePath, m.UndoDir, m.RedoDir)
	m.logRestore("undo", ok, err)
	return ok, err
}

func (m *Manager) Redo() (bool, error) {
	ok, err := Redo(m.StorePath, m.UndoDir, m.RedoDir)
	m.logRestore("redo", ok, err)
	return ok, err
}

// Undos lists the snapshots available to Undo, newest first.
func (m *Manager) Undos() ([]Info, error) {
	return List(m.StorePath, m.UndoDir)
}

// Redos lists the snapshots available to Redo, newest first.
func (m *Manager) Redos() ([]Info, error) {
	return List(m.StorePath, m.RedoDir)
}

func (m *Manager) logRestore(op string, ok bool, err error) {
	switch {
	case err != nil:
		m.Logger.Error().Err(err).Str("op", op).Msg("restore failed")
	case !ok:
		m.Logger.Warn().Str("op", op).Msg("no snapshot available")
	default:
		m.Logger.Info().Str("op", op).Str("store", m.StorePath).Msg("store restored")
	}
}
