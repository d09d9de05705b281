package git

import "strings"

// zeroSHA is git's null object id, used as the expected old value when
// creating a ref that must not already exist.
const zeroSHA = "0000000000000000000000000000000000000000"

// CreateRef creates a new ref pointing at objectID.
// The create is atomic: git rejects the update if the ref already exists,
// so two racing creators cannot both succeed.
func CreateRef(ref, objectID string) error {
	_, err := Run("update-ref", ref, objectID, zeroSHA)
	return err
}

// RefExists reports whether the given fully-qualified ref exists.
func RefExists(ref string) bool {
	_, err := Run("show-ref", "--verify", "--quiet", ref)
	return err == nil
}

// ResolveRef resolves a fully-qualified ref to an object id.
// Returns ok=false if the ref does not exist.
func ResolveRef(ref string) (sha string, ok bool) {
	out, err := Run("rev-parse", "--verify", "--quiet", ref)
	if err != nil || out == "" {
		return "", false
	}
	return out, true
}

// DeleteRef removes a ref. Deleting a ref that does not exist is not an
// error: partial-failure recovery depends on delete being idempotent.
func DeleteRef(ref string) error {
	if !RefExists(ref) {
		return nil
	}
	_, err := Run("update-ref", "-d", ref)
	return err
}

// ListRefs returns the fully-qualified names of all refs under the given
// prefix. Returns an empty slice when no refs match.
func ListRefs(prefix string) ([]string, error) {
	out, err := Run("for-each-ref", "--format=%(refname)", prefix)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return []string{}, nil
	}

	var refs []string
	for line := range strings.SplitSeq(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			refs = append(refs, line)
		}
	}
	return refs, nil
}
