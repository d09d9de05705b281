package checkpoint

import (
	"context"
	"path/filepath"
	"time"

	"github.com/karstlund/cairn/internal/git"
)

// IndexDirName is the repo-relative directory holding index files.
const IndexDirName = ".cairn/checkpoints"

// Store is the checkpoint facade used by commands: it coordinates the
// object writer, the ref store, and the index so the two persistence
// mechanisms stay consistent.
//
// Writes follow a fixed order. Creation: object, then ref, then index.
// Deletion: index, then ref. Any partial failure is therefore biased
// toward an orphaned ref (safe, detectable by List, cleanable) instead of
// an index entry pointing at nothing.
type Store struct {
	index  *IndexStore
	refs   RefStore
	writer ObjectWriter
	now    func() time.Time
}

// NewStore creates a Store with its index files under dir.
func NewStore(dir string) *Store {
	return &Store{
		index: NewIndexStore(dir),
		now:   time.Now,
	}
}

// DefaultStore creates a Store rooted at the current repository's
// .cairn/checkpoints directory.
func DefaultStore() (*Store, error) {
	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(root, IndexDirName)), nil
}

// Index exposes the underlying index store (used by status reporting).
func (s *Store) Index() *IndexStore {
	return s.index
}

// Create snapshots the working tree and records it as a checkpoint named
// name under workUnitID. The duplicate check against the index runs
// before any object or ref is written, so name collisions fail fast with
// no side effects.
func (s *Store) Create(ctx context.Context, workUnitID, name string, kind Kind, includeUntracked bool) (*Checkpoint, error) {
	if err := ValidateWorkUnitID(workUnitID); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	idx, err := s.index.Load(workUnitID)
	if err != nil {
		return nil, err
	}
	if idx.Contains(name) {
		return nil, &DuplicateError{WorkUnitID: workUnitID, Name: name}
	}

	objectID, err := s.writer.Write(ctx, includeUntracked)
	if err != nil {
		return nil, err
	}

	if err := s.refs.Put(workUnitID, name, objectID); err != nil {
		return nil, err
	}

	cp := &Checkpoint{
		WorkUnitID: workUnitID,
		Name:       name,
		ObjectID:   objectID,
		CreatedAt:  s.now().UTC(),
		Kind:       kind,
	}
	if err := s.index.Append(cp); err != nil {
		// The ref stays behind as an orphan: List surfaces it as a
		// warning and Delete can clean it up. Rolling it back here
		// would risk turning one failure into two.
		return nil, err
	}
	return cp, nil
}

// Get returns the index entry for a checkpoint.
// Returns NotFoundError if the index has no record of the name.
func (s *Store) Get(workUnitID, name string) (*Checkpoint, error) {
	idx, err := s.index.Load(workUnitID)
	if err != nil {
		return nil, err
	}
	cp := idx.Find(name)
	if cp == nil {
		return nil, &NotFoundError{WorkUnitID: workUnitID, Name: name}
	}
	return cp, nil
}

// List returns the index entries for a work unit together with any
// ref/index mismatches found by cross-checking the ref namespace. The
// index is the authoritative listing surface; mismatches are warnings,
// not errors, since a process interrupted mid-create legitimately leaves
// an orphaned ref behind.
func (s *Store) List(workUnitID string) ([]*Checkpoint, []Mismatch, error) {
	idx, err := s.index.Load(workUnitID)
	if err != nil {
		return nil, nil, err
	}

	refNames, err := s.refs.ListForWorkUnit(workUnitID)
	if err != nil {
		return nil, nil, err
	}

	refSet := make(map[string]bool, len(refNames))
	for _, n := range refNames {
		refSet[n] = true
	}

	var mismatches []Mismatch
	for _, cp := range idx.Checkpoints {
		if !refSet[cp.Name] {
			mismatches = append(mismatches, Mismatch{
				WorkUnitID: workUnitID,
				Name:       cp.Name,
				Kind:       MismatchDanglingEntry,
			})
		}
		delete(refSet, cp.Name)
	}
	for name := range refSet {
		mismatches = append(mismatches, Mismatch{
			WorkUnitID: workUnitID,
			Name:       name,
			Kind:       MismatchOrphanedRef,
		})
	}

	return idx.Checkpoints, mismatches, nil
}

// Remove deletes a checkpoint by name, regardless of kind. Fails with
// NotFoundError if the index has no record, leaving the index file
// byte-for-byte unchanged. Deletion order is index first, then ref, so an
// interruption leaves an orphaned ref rather than a dangling entry.
func (s *Store) Remove(workUnitID, name string) error {
	idx, err := s.index.Load(workUnitID)
	if err != nil {
		return err
	}
	if !idx.Contains(name) {
		return &NotFoundError{WorkUnitID: workUnitID, Name: name}
	}

	if err := s.index.Remove(workUnitID, name); err != nil {
		return err
	}
	return s.refs.Delete(workUnitID, name)
}
