// Package backup keeps timestamped copies of the store file so a merge can
// be undone and redone. Snapshots are never deleted here; pruning is left to
// the operator.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/sfx/pkg/id"
)

const stampLayout = "20060102_150405"

// Snapshot copies the store into dir under a timestamped name and returns
// the new path. It returns "" when the store does not exist yet.
func Snapshot(storePath, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(storePath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	stem, ext := split(storePath)
	t := time.Now()
	name := fmt.Sprintf("%s_%s_%s%s", stem, t.Format(stampLayout), id.NewAt(t), ext)
	path := filepath.Join(dir, name)

	if err := copyTo(path, src); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", storePath, err)
	}
	return path, nil
}

// Undo saves the current store into redoDir, then restores the newest
// snapshot from undoDir. It reports false when there is nothing to restore.
func Undo(storePath, undoDir, redoDir string) (bool, error) {
	return restore(storePath, undoDir, redoDir)
}

// Redo is Undo with the folders swapped.
func Redo(storePath, undoDir, redoDir string) (bool, error) {
	return restore(storePath, redoDir, undoDir)
}

func restore(storePath, from, saveTo string) (bool, error) {
	if _, err := Snapshot(storePath, saveTo); err != nil {
		return false, err
	}

	snaps, err := List(storePath, from)
	if err != nil {
		return false, err
	}
	if len(snaps) == 0 {
		return false, nil
	}

	src, err := os.Open(snaps[0].Path)
	if err != nil {
		return false, err
	}
	defer src.Close()

	if err := copyTo(storePath, src); err != nil {
		return false, fmt.Errorf("restore %s: %w", snaps[0].Path, err)
	}
	return true, nil
}

// Info describes one snapshot file.
type Info struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// List returns the snapshots of storePath found in dir, newest first. A
// missing dir yields no snapshots.
func List(storePath, dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stem, ext := split(storePath)
	var out []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, stem+"_") || !strings.HasSuffix(name, ext) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Info{
			Path:    filepath.Join(dir, name),
			ModTime: fi.ModTime(),
			Size:    fi.Size(),
		})
	}

	// Ties on mtime fall back to the name, whose ULID sorts by creation.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Path > out[j].Path
	})
	return out, nil
}

func split(storePath string) (stem, ext string) {
	base := filepath.Base(storePath)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

func copyTo(dst string, src io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
