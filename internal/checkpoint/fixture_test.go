package checkpoint

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitRun runs a git command in the current directory, failing the test on error.
func gitRun(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// initTestRepo creates a temp git repository with one commit and changes
// into it for the duration of the test.
func initTestRepo(t *testing.T) string {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current dir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}

	gitRun(t, "init", "-q")
	gitRun(t, "config", "user.email", "test@example.com")
	gitRun(t, "config", "user.name", "Test User")
	gitRun(t, "config", "commit.gpgsign", "false")

	writeFile(t, "main.go", "package main\n\nfunc main() {}\n")
	gitRun(t, "add", ".")
	gitRun(t, "commit", "-q", "-m", "initial commit")

	return dir
}

// newTestStore creates a Store rooted at the fixture repo's index directory.
func newTestStore(t *testing.T, repoDir string) *Store {
	t.Helper()
	return NewStore(filepath.Join(repoDir, IndexDirName))
}

// writeFile writes content to a path relative to the current directory.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create dir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// readFile reads a file relative to the current directory.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// mustCreate creates a checkpoint, failing the test on error.
func mustCreate(t *testing.T, store *Store, workUnit, name string, kind Kind) *Checkpoint {
	t.Helper()
	cp, err := store.Create(context.Background(), workUnit, name, kind, true)
	if err != nil {
		t.Fatalf("Create(%s, %s) failed: %v", workUnit, name, err)
	}
	return cp
}
