package checkpoint

import (
	"context"

	"github.com/karstlund/cairn/internal/git"
)

// ObjectWriter captures working-tree contents into the repository's
// object store. Side effects are confined to the object store: the active
// branch, the staging area, and tracked-file mtimes stay unmodified.
type ObjectWriter struct{}

// Write snapshots the working tree and returns the content-addressed tree
// id. Identical content always yields the same id; no wall-clock input is
// involved. Fails with ObjectWriteError when the repository has no commit
// history to anchor the capture (a freshly initialized empty repository).
func (ObjectWriter) Write(ctx context.Context, includeUntracked bool) (string, error) {
	sha, err := git.WriteSnapshotTree(ctx, includeUntracked)
	if err != nil {
		return "", &ObjectWriteError{Reason: err.Error(), Cause: err}
	}
	return sha, nil
}
