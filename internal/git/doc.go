// Package git provides Git operations via exec for the cairn CLI.
//
// This package wraps git commands by shelling out to the git executable,
// capturing stdout/stderr and translating exit codes to appropriate errors.
//
// # General Operations
//
// The package provides common git operations through simple function calls:
//
//	git.IsRepo()        // Check if current directory is a git repository
//	git.RepoRoot()      // Get the root directory of the repository
//	git.HEAD()          // Get the current HEAD commit SHA
//	git.HasHistory()    // Check that at least one commit exists
//
// For custom git commands, use Run or RunContext:
//
//	output, err := git.Run("rev-parse", "--abbrev-ref", "HEAD")
//
// Working-tree inspections and mutations exclude the .cairn metadata
// directory: it never reads as uncommitted work, is never stashed, and
// is never captured into a snapshot.
//
// # Snapshot Operations
//
// WriteSnapshotTree captures the working tree into a content-addressed
// tree object using a throwaway index, leaving HEAD, the real index, and
// file mtimes untouched. Restoration goes the other way:
//
//	sha, err := git.WriteSnapshotTree(ctx, includeUntracked)
//	err = git.RestoreWorktreeFrom(ctx, sha)
//
// # Ref Operations
//
// Checkpoint refs live under refs/cairn/ and are manipulated with
// CreateRef (create-only, atomic), ResolveRef, DeleteRef (idempotent),
// and ListRefs. The package never touches refs outside the prefix its
// callers pass in, and never moves branch heads.
//
// # Error Handling
//
// All functions return errors wrapped with appropriate exit codes:
//   - ExitSystemError (2) for git failures and git-not-found
//
// Callers that need finer-grained taxonomy (duplicate names, missing
// checkpoints) layer their own typed errors on top; see the checkpoint
// package.
package git
