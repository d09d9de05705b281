package checkpoint

import (
	"strings"

	"github.com/karstlund/cairn/internal/git"
)

// RefPrefix is the reserved ref namespace for checkpoint refs. Nothing
// outside this prefix is ever created, mutated, or deleted by cairn, and
// branch heads and the index are never touched.
const RefPrefix = "refs/cairn/checkpoints"

// RefStore maintains one git ref per checkpoint, keyed by
// (workUnitID, name). Refs pin the snapshot trees so git's garbage
// collection cannot reap them while an index entry exists.
type RefStore struct{}

// RefName returns the fully-qualified ref for a checkpoint.
func RefName(workUnitID, name string) string {
	return RefPrefix + "/" + workUnitID + "/" + name
}

// Put creates a new checkpoint ref. Fails with DuplicateError if a live
// ref already exists for (workUnitID, name); callers must delete first if
// replacement is intended. The underlying ref creation is atomic, so the
// pre-check cannot race into a silent overwrite.
func (RefStore) Put(workUnitID, name, objectID string) error {
	ref := RefName(workUnitID, name)
	if git.RefExists(ref) {
		return &DuplicateError{WorkUnitID: workUnitID, Name: name}
	}
	return git.CreateRef(ref, objectID)
}

// Get resolves a checkpoint ref to its object id.
// Returns NotFoundError if no live ref exists.
func (RefStore) Get(workUnitID, name string) (string, error) {
	sha, ok := git.ResolveRef(RefName(workUnitID, name))
	if !ok {
		return "", &NotFoundError{WorkUnitID: workUnitID, Name: name}
	}
	return sha, nil
}

// Delete removes a checkpoint ref. Idempotent: deleting a non-existent
// ref is not an error, which keeps recovery from partial failures simple.
func (RefStore) Delete(workUnitID, name string) error {
	return git.DeleteRef(RefName(workUnitID, name))
}

// ListForWorkUnit enumerates the checkpoint names with live refs under
// the work unit's namespace segment. Used as a cross-check against the
// index when listing.
func (RefStore) ListForWorkUnit(workUnitID string) ([]string, error) {
	prefix := RefPrefix + "/" + workUnitID + "/"
	refs, err := git.ListRefs(prefix)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, strings.TrimPrefix(ref, prefix))
	}
	return names, nil
}
