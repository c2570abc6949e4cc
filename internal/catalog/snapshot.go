package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// loadSnapshot reads a fresh snapshot into memory. It reports false when
// the snapshot is missing, stale or unreadable.
func (s *Store) loadSnapshot() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	if s.opts.Now().Sub(info.ModTime()) >= s.opts.MaxAge {
		return false
	}

	records, err := readSnapshot(s.path)
	if err != nil {
		log.Printf("Catalog store %s: ignoring unreadable snapshot: %v", s.opts.Name, err)
		return false
	}
	s.replace(records)
	return true
}

// persist failures are logged; the in-memory copy stays authoritative.
func (s *Store) persist(records []entities.Record) {
	if err := writeSnapshot(s.path, records); err != nil {
		log.Printf("Catalog store %s: failed to write snapshot: %v", s.opts.Name, err)
	}
}

func readSnapshot(path string) ([]entities.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var records []entities.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}

// writeSnapshot replaces the snapshot file atomically so readers never see
// a partial catalog.
func writeSnapshot(path string, records []entities.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "catalog_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
