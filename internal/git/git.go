package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/karstlund/cairn/internal/output"
)

// Run executes a git command with the given arguments.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), args...)
}

// RunContext executes a git command with the given context and arguments.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func RunContext(ctx context.Context, args ...string) (string, error) {
	return RunEnv(ctx, nil, args...)
}

// RunEnv executes a git command with extra environment variables appended
// to the current process environment. Used by snapshot plumbing to point
// git at a throwaway index file via GIT_INDEX_FILE.
func RunEnv(ctx context.Context, extraEnv []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if git is not found
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo checks if the current directory is inside a git repository.
func IsRepo() bool {
	_, err := Run("rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the current git repository.
// Returns an error if not in a git repository.
func RepoRoot() (string, error) {
	root, err := Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return root, nil
}

// CurrentBranch returns the name of the current branch.
// Returns an error if not in a git repository or HEAD is detached.
func CurrentBranch() (string, error) {
	branch, err := Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get current branch", err)
	}
	return branch, nil
}

// HEAD returns the full SHA of the current HEAD commit.
// Returns an error if not in a git repository or no commits exist.
func HEAD() (string, error) {
	sha, err := Run("rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get HEAD", err)
	}
	return sha, nil
}

// HasHistory reports whether the repository has at least one commit.
// Snapshot capture needs an existing HEAD tree to anchor its throwaway index.
func HasHistory() bool {
	_, err := Run("rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// SHAExists checks if a SHA exists in the current repository.
// Returns true if the SHA resolves to a known git object, false otherwise.
func SHAExists(sha string) bool {
	if sha == "" {
		return false
	}
	_, err := Run("cat-file", "-t", sha)
	return err == nil
}

// metaExclude is the pathspec that keeps the .cairn metadata directory out
// of every working-tree inspection and mutation. The directory is
// bookkeeping, not content: it must not read as dirt, be stashed, or end
// up inside a snapshot.
const metaExclude = ":(exclude).cairn"

// HasUncommittedChanges returns true if the working tree has staged or
// unstaged changes. The .cairn metadata directory never counts.
func HasUncommittedChanges() bool {
	root, err := RepoRoot()
	if err != nil {
		return false
	}
	out, err := Run("-C", root, "status", "--porcelain", "--", ".", metaExclude)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}
