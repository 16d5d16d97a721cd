/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mikeb26/tcgstandings/standings"
)

// ErrNoMetadata is returned when a table has no metadata sidecar.
var ErrNoMetadata = errors.New("no metadata for table")

// Metadata describes where a table came from.
type Metadata struct {
	Event       string    `json:"event,omitempty"`
	EventDate   time.Time `json:"eventDate,omitzero"`
	Sources     []string  `json:"sources"`
	Entries     int       `json:"entries"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Store is a table persisted at Path. It keeps no state between calls:
// every Load re-reads the file so a regenerated table is picked up on the
// next request.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// MetadataPath returns the sidecar location for the table at path.
func MetadataPath(path string) string {
	return path + ".meta.json"
}

// Load reads the current table.
func (s *Store) Load() ([]Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %v: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load table %v: %w", s.Path, err)
	}

	return rows, nil
}

// Metadata reads the table's sidecar, returning ErrNoMetadata when there
// isn't one.
func (s *Store) Metadata() (*Metadata, error) {
	data, err := os.ReadFile(MetadataPath(s.Path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoMetadata
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &md, nil
}

// Save writes entries to Path, replacing any previous table, along with
// its metadata sidecar when md is non-nil. The table is written to a
// temporary file first so concurrent readers never see a partial table.
// Entries that could not be read back as rows are rejected and nothing is
// written.
func (s *Store) Save(entries []standings.Entry, md *Metadata) error {
	for i, e := range entries {
		if _, err := NewRow(e); err != nil {
			return fmt.Errorf("entry %d (%v): %w", i+1, e.Name, err)
		}
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp table: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace table %v: %w", s.Path, err)
	}

	if md == nil {
		return nil
	}
	md.Entries = len(entries)
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(MetadataPath(s.Path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}
