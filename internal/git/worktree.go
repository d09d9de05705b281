package git

import (
	"context"
	"sort"
	"strings"
)

// DiffNamesAgainst returns the paths a restore from the given tree-ish
// would touch: tracked paths whose content differs from the tree, plus
// untracked paths that also exist in the tree (restore overwrites those
// too, but plain diff never reports them).
func DiffNamesAgainst(treeish string) ([]string, error) {
	root, err := RepoRoot()
	if err != nil {
		return nil, err
	}

	diffOut, err := Run("-C", root, "diff", "--name-only", treeish, "--", ".", metaExclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, line := range splitLines(diffOut) {
		seen[line] = true
	}

	untrackedOut, err := Run("-C", root, "ls-files", "--others", "--exclude-standard", "--", ".", metaExclude)
	if err != nil {
		return nil, err
	}
	untracked := splitLines(untrackedOut)
	if len(untracked) > 0 {
		treeOut, err := Run("-C", root, "ls-tree", "-r", "--name-only", treeish)
		if err != nil {
			return nil, err
		}
		inTree := make(map[string]bool)
		for _, line := range splitLines(treeOut) {
			inTree[line] = true
		}
		for _, path := range untracked {
			if inTree[path] {
				seen[path] = true
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// RestoreWorktreeFrom overwrites working-tree file contents with the state
// captured in the given tree-ish. HEAD and the index are left alone; only
// file contents change. There is no conflict resolution step: anything
// uncommitted in the touched paths is replaced.
func RestoreWorktreeFrom(ctx context.Context, treeish string) error {
	root, err := RepoRoot()
	if err != nil {
		return err
	}
	_, err = RunContext(ctx, "-C", root, "restore", "--source="+treeish, "--worktree", "--", ".")
	return err
}

// StashPush saves the current uncommitted changes (including untracked
// files) to the stash under the given message. The changes stay
// recoverable via a manual `git stash pop`. The .cairn metadata directory
// is never stashed; sweeping it away would take the checkpoint index with
// it.
func StashPush(ctx context.Context, message string) error {
	root, err := RepoRoot()
	if err != nil {
		return err
	}
	_, err = RunContext(ctx, "-C", root, "stash", "push", "--include-untracked", "-m", message, "--", ".", metaExclude)
	return err
}

// splitLines splits command output into trimmed, non-empty lines.
func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for line := range strings.SplitSeq(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
