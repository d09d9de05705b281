package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// indexDoc is the on-disk shape of a per-work-unit index file.
type indexDoc struct {
	Schema      string        `json:"schema"`
	WorkUnitID  string        `json:"work_unit_id"`
	Checkpoints []*Checkpoint `json:"checkpoints"`
}

// Index is the in-memory checkpoint ledger for one work unit. It is the
// authoritative listing surface; the ref store is verified against it
// opportunistically.
type Index struct {
	WorkUnitID  string
	Checkpoints []*Checkpoint
}

// Find returns the checkpoint with the given name, or nil.
func (i *Index) Find(name string) *Checkpoint {
	for _, cp := range i.Checkpoints {
		if cp.Name == name {
			return cp
		}
	}
	return nil
}

// Contains reports whether a checkpoint with the given name exists.
func (i *Index) Contains(name string) bool {
	return i.Find(name) != nil
}

// Auto returns the checkpoints with kind auto, in index order.
func (i *Index) Auto() []*Checkpoint {
	return i.filter(KindAuto)
}

// Manual returns the checkpoints with kind manual, in index order.
func (i *Index) Manual() []*Checkpoint {
	return i.filter(KindManual)
}

func (i *Index) filter(kind Kind) []*Checkpoint {
	var out []*Checkpoint
	for _, cp := range i.Checkpoints {
		if cp.Kind == kind {
			out = append(out, cp)
		}
	}
	return out
}

// IndexStore reads and writes per-work-unit index files in a directory
// (normally <repo>/.cairn/checkpoints). Every mutation is a full
// read-modify-write with atomic replace semantics so a crash can never
// leave truncated JSON behind.
type IndexStore struct {
	dir string
}

// NewIndexStore creates an IndexStore rooted at the given directory.
func NewIndexStore(dir string) *IndexStore {
	return &IndexStore{dir: dir}
}

// Dir returns the index directory path.
func (s *IndexStore) Dir() string {
	return s.dir
}

// Path returns the index file path for a work unit.
func (s *IndexStore) Path(workUnitID string) string {
	return filepath.Join(s.dir, workUnitID+".json")
}

// Exists reports whether an index file exists for the work unit.
func (s *IndexStore) Exists(workUnitID string) bool {
	_, err := os.Stat(s.Path(workUnitID))
	return err == nil
}

// WorkUnits returns the ids of all work units with an index file, sorted.
// Returns an empty slice if the index directory does not exist.
func (s *IndexStore) WorkUnits() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading index directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads the index for a work unit. A missing file is not an error:
// it is equivalent to an empty index. A file that fails to parse or
// carries an unknown schema yields a CorruptIndexError and is left
// untouched for manual inspection.
func (s *IndexStore) Load(workUnitID string) (*Index, error) {
	path := s.Path(workUnitID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Index{WorkUnitID: workUnitID}, nil
		}
		return nil, &CorruptIndexError{Path: path, Cause: err}
	}

	var doc indexDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptIndexError{Path: path, Cause: err}
	}
	if doc.Schema != SchemaVersion {
		return nil, &CorruptIndexError{Path: path, Cause: fmt.Errorf("unknown schema %q", doc.Schema)}
	}
	// Entries are trusted downstream (object ids get sliced for display,
	// names become ref segments), so a malformed entry is corruption too.
	for _, cp := range doc.Checkpoints {
		if err := cp.Validate(); err != nil {
			return nil, &CorruptIndexError{Path: path, Cause: err}
		}
	}

	return &Index{WorkUnitID: workUnitID, Checkpoints: doc.Checkpoints}, nil
}

// Save writes the index atomically (write to temp, rename into place).
// An index that has become empty is still written: an empty index is a
// valid state meaning "no checkpoints currently exist", and the file is
// never deleted just for being empty.
func (s *IndexStore) Save(idx *Index) error {
	doc := indexDoc{
		Schema:      SchemaVersion,
		WorkUnitID:  idx.WorkUnitID,
		Checkpoints: idx.Checkpoints,
	}
	if doc.Checkpoints == nil {
		doc.Checkpoints = []*Checkpoint{}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing index for %s: %w", idx.WorkUnitID, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return atomicWrite(s.Path(idx.WorkUnitID), data)
}

// Append adds a checkpoint record. Fails with DuplicateError if the name
// collides within the work unit.
func (s *IndexStore) Append(cp *Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return err
	}

	idx, err := s.Load(cp.WorkUnitID)
	if err != nil {
		return err
	}
	if idx.Contains(cp.Name) {
		return &DuplicateError{WorkUnitID: cp.WorkUnitID, Name: cp.Name}
	}

	idx.Checkpoints = append(idx.Checkpoints, cp)
	return s.Save(idx)
}

// Remove deletes a checkpoint record. Idempotent: removing a name that is
// not present (or a work unit with no index file) is a no-op, and no index
// file is ever created by removal.
func (s *IndexStore) Remove(workUnitID, name string) error {
	if !s.Exists(workUnitID) {
		return nil
	}

	idx, err := s.Load(workUnitID)
	if err != nil {
		return err
	}
	if !idx.Contains(name) {
		return nil
	}

	kept := idx.Checkpoints[:0]
	for _, cp := range idx.Checkpoints {
		if cp.Name != name {
			kept = append(kept, cp)
		}
	}
	idx.Checkpoints = kept
	return s.Save(idx)
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
