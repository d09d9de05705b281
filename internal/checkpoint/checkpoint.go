// Package checkpoint implements named, immutable working-tree snapshots
// scoped to work units. Snapshots are stored as content-addressed git tree
// objects, pinned by refs under refs/cairn/checkpoints/, and listed in a
// per-work-unit JSON index under .cairn/checkpoints/.
package checkpoint

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SchemaVersion is the current schema version for checkpoint index files.
const SchemaVersion = "cairn.checkpoints/v1"

// Kind distinguishes automatically created checkpoints from user-requested
// ones. Auto checkpoints are pruned when their work unit completes; manual
// checkpoints are never auto-pruned.
type Kind string

// Checkpoint kinds.
const (
	KindAuto   Kind = "auto"
	KindManual Kind = "manual"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindAuto || k == KindManual
}

// Checkpoint is one named snapshot of working-tree content.
// (WorkUnitID, Name) is unique; ObjectID is the SHA of the captured tree.
type Checkpoint struct {
	WorkUnitID string    `json:"work_unit_id"`
	Name       string    `json:"name"`
	ObjectID   string    `json:"object_id"`
	CreatedAt  time.Time `json:"created_at"`
	Kind       Kind      `json:"kind"`
}

// Validate checks that all required fields are present and well formed.
func (c *Checkpoint) Validate() error {
	if err := ValidateWorkUnitID(c.WorkUnitID); err != nil {
		return err
	}
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if !objectIDRegex.MatchString(c.ObjectID) {
		return fmt.Errorf("checkpoint %s/%s has malformed object id %q", c.WorkUnitID, c.Name, c.ObjectID)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("checkpoint %s/%s has invalid kind %q", c.WorkUnitID, c.Name, c.Kind)
	}
	return nil
}

// objectIDRegex matches a full object id in either hash flavor git
// produces (40 hex for sha1 repos, 64 for sha256). Anything shorter or
// non-hex in an index file is corruption, not an abbreviation.
var objectIDRegex = regexp.MustCompile(`^([0-9a-f]{40}|[0-9a-f]{64})$`)

// identRegex restricts identifiers to characters that are safe both as a
// git refname segment and as a filename. Must start with an alphanumeric.
var identRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateWorkUnitID checks that a work unit id is usable as a ref segment
// and an index filename.
func ValidateWorkUnitID(id string) error {
	if err := validateIdent(id); err != nil {
		return fmt.Errorf("invalid work unit id %q: %w", id, err)
	}
	return nil
}

// ValidateName checks that a checkpoint name is usable as a ref segment.
func ValidateName(name string) error {
	if err := validateIdent(name); err != nil {
		return fmt.Errorf("invalid checkpoint name %q: %w", name, err)
	}
	return nil
}

func validateIdent(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	if !identRegex.MatchString(s) {
		return fmt.Errorf("must start with a letter or digit and contain only letters, digits, '.', '_' or '-'")
	}
	// git refuses refname components ending in ".lock"
	if strings.HasSuffix(s, ".lock") {
		return fmt.Errorf("must not end with .lock")
	}
	if strings.Contains(s, "..") {
		return fmt.Errorf("must not contain '..'")
	}
	return nil
}
