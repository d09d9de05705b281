package mcp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/karstlund/cairn/internal/checkpoint"
)

// setupRepo creates a temp git repository with one commit and changes into
// it for the duration of the test, returning a checkpoint store for it.
func setupRepo(t *testing.T) *checkpoint.Store {
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

	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
	} {
		cmd := exec.Command("git", args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}
	if err := os.WriteFile("main.go", []byte("package main\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	for _, args := range [][]string{
		{"add", "."},
		{"commit", "-q", "-m", "initial commit"},
	} {
		cmd := exec.Command("git", args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	return checkpoint.NewStore(filepath.Join(dir, checkpoint.IndexDirName))
}

func TestNewServer(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	server := NewServer("test", store)
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestCreateListRemoveTools(t *testing.T) {
	store := setupRepo(t)
	ctx := context.Background()

	_, created, err := handleCreate(store)(ctx, nil, CreateInput{
		WorkUnit:         "WU-001",
		Name:             "before-edit",
		IncludeUntracked: true,
	})
	if err != nil {
		t.Fatalf("checkpoint_create failed: %v", err)
	}
	if created.Checkpoint.Name != "before-edit" || created.Checkpoint.Kind != "manual" {
		t.Errorf("created = %+v", created.Checkpoint)
	}

	_, listed, err := handleList(store)(ctx, nil, ListInput{WorkUnit: "WU-001"})
	if err != nil {
		t.Fatalf("checkpoint_list failed: %v", err)
	}
	if len(listed.Checkpoints) != 1 || len(listed.Warnings) != 0 {
		t.Errorf("listed = %+v", listed)
	}

	_, removed, err := handleRemove(store)(ctx, nil, RemoveInput{WorkUnit: "WU-001", Name: "before-edit"})
	if err != nil {
		t.Fatalf("checkpoint_remove failed: %v", err)
	}
	if removed.Removed != "before-edit" {
		t.Errorf("removed = %+v", removed)
	}

	_, listed, err = handleList(store)(ctx, nil, ListInput{WorkUnit: "WU-001"})
	if err != nil {
		t.Fatalf("checkpoint_list after remove failed: %v", err)
	}
	if len(listed.Checkpoints) != 0 {
		t.Errorf("checkpoints after remove = %+v", listed.Checkpoints)
	}
}

func TestRestoreTools(t *testing.T) {
	store := setupRepo(t)
	ctx := context.Background()

	if _, _, err := handleCreate(store)(ctx, nil, CreateInput{
		WorkUnit: "WU-001", Name: "snap", IncludeUntracked: true,
	}); err != nil {
		t.Fatalf("checkpoint_create failed: %v", err)
	}

	if err := os.WriteFile("main.go", []byte("package main // broken\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, plan, err := handlePlan(store)(ctx, nil, PlanInput{WorkUnit: "WU-001", Name: "snap"})
	if err != nil {
		t.Fatalf("restore_plan failed: %v", err)
	}
	if !plan.Dirty {
		t.Error("plan reports clean for a dirty tree")
	}
	if len(plan.Options) == 0 || plan.Options[0].Number != 1 {
		t.Fatalf("options = %+v, want 1-based numbering", plan.Options)
	}

	// The last option is the overwrite.
	last := plan.Options[len(plan.Options)-1]
	_, applied, err := handleApply(store)(ctx, nil, ApplyInput{
		WorkUnit: "WU-001", Name: "snap", Option: last.Number,
	})
	if err != nil {
		t.Fatalf("restore_apply failed: %v", err)
	}
	if applied.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", applied.FilesChanged)
	}

	data, err := os.ReadFile("main.go")
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "package main\n" {
		t.Errorf("restored content = %q", data)
	}
}

func TestStatusTool(t *testing.T) {
	store := setupRepo(t)
	ctx := context.Background()

	if _, _, err := handleCreate(store)(ctx, nil, CreateInput{
		WorkUnit: "WU-001", Name: "snap", IncludeUntracked: true,
	}); err != nil {
		t.Fatalf("checkpoint_create failed: %v", err)
	}
	if err := os.WriteFile("wip.txt", []byte("wip\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, status, err := handleStatus(store)(ctx, nil, StatusInput{})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.Dirty {
		t.Error("status reports clean with an untracked file present")
	}
	if len(status.WorkUnits) != 1 || status.WorkUnits[0].Checkpoints != 1 {
		t.Errorf("work units = %+v, want WU-001 with 1 checkpoint", status.WorkUnits)
	}
}

func TestApplyToolRejectsBadOption(t *testing.T) {
	store := setupRepo(t)
	ctx := context.Background()

	if _, _, err := handleCreate(store)(ctx, nil, CreateInput{
		WorkUnit: "WU-001", Name: "snap", IncludeUntracked: true,
	}); err != nil {
		t.Fatalf("checkpoint_create failed: %v", err)
	}

	if _, _, err := handleApply(store)(ctx, nil, ApplyInput{
		WorkUnit: "WU-001", Name: "snap", Option: 9,
	}); err == nil {
		t.Error("restore_apply accepted an out-of-range option")
	}
}
