package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the CSV file holding every known trade. It assumes a single
// writer; concurrent merges can lose updates.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// MergeResult describes what a merge changed.
type MergeResult struct {
	Added      []TradeRecord
	Duplicates int
	Total      int
}

// Load returns the stored records. A missing file is an empty store.
func (s *Store) Load() ([]TradeRecord, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.Path, err)
	}
	return recs, nil
}

// Save replaces the store content with records.
func (s *Store) Save(records []TradeRecord) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// Merge appends records to the store, drops exact duplicates (the first
// occurrence wins) and persists the result. Existing rows come first.
func (s *Store) Merge(records []TradeRecord) (MergeResult, error) {
	existing, err := s.Load()
	if err != nil {
		return MergeResult{}, err
	}

	all := Dedup(existing)
	seen := make(map[Key]struct{}, len(all)+len(records))
	for _, t := range all {
		seen[t.Key()] = struct{}{}
	}

	var res MergeResult
	for _, t := range records {
		k := t.Key()
		if _, ok := seen[k]; ok {
			res.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		all = append(all, t)
		res.Added = append(res.Added, t)
	}

	if err := s.Save(all); err != nil {
		return MergeResult{}, err
	}
	res.Total = len(all)
	return res, nil
}

// Rewrite replaces the whole store with records after deduplication and
// returns how many rows were dropped as duplicates.
func (s *Store) Rewrite(records []TradeRecord) (int, error) {
	unique := Dedup(records)
	if err := s.Save(unique); err != nil {
		return 0, err
	}
	return len(records) - len(unique), nil
}

// Dedup keeps the first record for each key, in order.
func Dedup(records []TradeRecord) []TradeRecord {
	seen := make(map[Key]struct{}, len(records))
	out := make([]TradeRecord, 0, len(records))
	for _, t := range records {
		k := t.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
