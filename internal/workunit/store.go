package workunit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
)

// DirName is the repo-relative directory holding work-unit records.
const DirName = ".cairn/work"

// Store reads and writes work-unit records, one JSON file per unit.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore creates a Store rooted at the current repository's
// .cairn/work directory.
func DefaultStore() (*Store, error) {
	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(root, DirName)), nil
}

// path returns the record file path for a work unit id.
func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Exists reports whether a record exists for the given id.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.path(id))
	return err == nil
}

// Load reads the record for a work unit.
// Returns a user error if no record exists.
func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, output.NewUserError("work unit not found: " + id)
		}
		return nil, output.NewSystemErrorWithCause("failed to read work unit file", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse work unit "+id, err)
	}
	if rec.Schema != SchemaVersion {
		return nil, output.NewSystemError(fmt.Sprintf("work unit %s has unknown schema %q", id, rec.Schema))
	}
	return &rec, nil
}

// Save writes a record atomically (write to temp, rename into place).
func (s *Store) Save(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return output.NewUserError(err.Error())
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize work unit "+rec.ID, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create work unit directory", err)
	}

	path := s.path(rec.ID)
	tmpFile, err := os.CreateTemp(s.dir, ".tmp-*.json")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to create temp file", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return output.NewSystemErrorWithCause("failed to write work unit file", err)
	}
	if err := tmpFile.Close(); err != nil {
		return output.NewSystemErrorWithCause("failed to close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return output.NewSystemErrorWithCause("failed to rename work unit file", err)
	}
	return nil
}

// List returns all records sorted by id.
// Returns an empty slice if the directory does not exist.
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*Record{}, nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read work unit directory", err)
	}

	var records []*Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		rec, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Skip unreadable records rather than failing the listing.
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if records == nil {
		records = []*Record{}
	}
	return records, nil
}
