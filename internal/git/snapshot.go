package git

import (
	"context"
	"os"

	"github.com/karstlund/cairn/internal/output"
)

// WriteSnapshotTree captures the current working-tree contents as a git
// tree object and returns its SHA. The capture goes through a throwaway
// index file so the real index, HEAD, and tracked-file mtimes are never
// touched. The returned SHA is content-addressed: identical tree contents
// always produce the same id.
//
// If includeUntracked is true, files unknown to git are captured as well;
// otherwise only tracked files (including deletions) are recorded.
//
// Requires at least one commit in the repository: the throwaway index is
// seeded from HEAD so that unmodified tracked files are captured without
// rehashing the whole tree.
func WriteSnapshotTree(ctx context.Context, includeUntracked bool) (string, error) {
	root, err := RepoRoot()
	if err != nil {
		return "", err
	}

	if !HasHistory() {
		return "", output.NewSystemError("repository has no commits: snapshot capture needs an initial commit to anchor against")
	}

	tmp, err := os.CreateTemp("", "cairn-index-*")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to create temporary index", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", output.NewSystemErrorWithCause("failed to close temporary index", err)
	}
	// read-tree wants to create the index file itself
	if err := os.Remove(tmpPath); err != nil {
		return "", output.NewSystemErrorWithCause("failed to reset temporary index", err)
	}
	defer func() { _ = os.Remove(tmpPath) }()

	env := []string{"GIT_INDEX_FILE=" + tmpPath}

	if _, err := RunEnv(ctx, env, "-C", root, "read-tree", "HEAD"); err != nil {
		return "", err
	}

	addArgs := []string{"-C", root, "add"}
	if includeUntracked {
		addArgs = append(addArgs, "-A")
	} else {
		addArgs = append(addArgs, "-u")
	}
	// Restoring a snapshot that contained the metadata directory would
	// overwrite the live index, so it is excluded from capture.
	addArgs = append(addArgs, "--", ".", metaExclude)
	if _, err := RunEnv(ctx, env, addArgs...); err != nil {
		return "", err
	}

	tree, err := RunEnv(ctx, env, "-C", root, "write-tree")
	if err != nil {
		return "", err
	}
	return tree, nil
}
