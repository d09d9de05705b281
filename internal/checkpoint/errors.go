package checkpoint

import (
	"fmt"

	"github.com/karstlund/cairn/internal/output"
)

// DuplicateError reports a checkpoint name collision within a work unit.
// Creation never silently overwrites: the caller must remove the existing
// checkpoint first if replacement is intended.
type DuplicateError struct {
	WorkUnitID string
	Name       string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("checkpoint %q already exists for work unit %q", e.Name, e.WorkUnitID)
}

// ExitCode maps duplicate names to the conflict exit code.
func (e *DuplicateError) ExitCode() int { return output.ExitConflict }

// NotFoundError reports a checkpoint referenced by name but absent from
// the index.
type NotFoundError struct {
	WorkUnitID string
	Name       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("checkpoint %q not found for work unit %q", e.Name, e.WorkUnitID)
}

// ExitCode maps missing checkpoints to the user-error exit code.
func (e *NotFoundError) ExitCode() int { return output.ExitUserError }

// ObjectWriteError reports a failed snapshot capture. Fatal to the current
// command; never retried automatically.
type ObjectWriteError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *ObjectWriteError) Error() string {
	return "snapshot capture failed: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *ObjectWriteError) Unwrap() error { return e.Cause }

// ExitCode maps object-store failures to the system exit code.
func (e *ObjectWriteError) ExitCode() int { return output.ExitSystemError }

// CorruptIndexError reports an index file that failed to parse. The file
// is left untouched for manual inspection; the command aborts rather than
// guessing at partial content.
type CorruptIndexError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("checkpoint index %s is corrupt: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CorruptIndexError) Unwrap() error { return e.Cause }

// ExitCode maps corrupt indexes to the system exit code.
func (e *CorruptIndexError) ExitCode() int { return output.ExitSystemError }

// MismatchKind classifies a ref/index inconsistency.
type MismatchKind string

// Mismatch kinds. An orphaned ref (ref without index entry) is the
// expected direction of drift after a partial failure; a dangling index
// entry (entry whose ref is gone) should not normally happen.
const (
	MismatchOrphanedRef   MismatchKind = "orphaned_ref"
	MismatchDanglingEntry MismatchKind = "dangling_entry"
)

// Mismatch describes one detected ref/index inconsistency. Mismatches are
// surfaced as warnings on listing operations, never as failures: a partial
// failure mid-create is an accepted, repairable state.
type Mismatch struct {
	WorkUnitID string       `json:"work_unit_id"`
	Name       string       `json:"name"`
	Kind       MismatchKind `json:"kind"`
}

// String renders a human-readable warning line.
func (m Mismatch) String() string {
	switch m.Kind {
	case MismatchOrphanedRef:
		return fmt.Sprintf("ref exists for %s/%s but the index has no entry (leftover from an interrupted create; remove with 'cairn checkpoint remove' after re-adding, or delete the ref manually)", m.WorkUnitID, m.Name)
	case MismatchDanglingEntry:
		return fmt.Sprintf("index lists %s/%s but its ref is missing (the snapshot is unreachable)", m.WorkUnitID, m.Name)
	default:
		return fmt.Sprintf("inconsistency for %s/%s: %s", m.WorkUnitID, m.Name, m.Kind)
	}
}
