package checkpoint

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestOptionsForDirtyTree(t *testing.T) {
	opts := optionsForStatus(true)

	if len(opts) != 2 {
		t.Fatalf("expected 2 options for a dirty tree, got %d", len(opts))
	}
	if opts[0].Action != ActionStashThenApply || opts[0].Risk != RiskLow {
		t.Errorf("first option = %+v, want low-risk stash_then_apply", opts[0])
	}
	if opts[1].Action != ActionOverwrite || opts[1].Risk != RiskHigh {
		t.Errorf("last option = %+v, want high-risk overwrite", opts[1])
	}
}

func TestOptionsForCleanTree(t *testing.T) {
	opts := optionsForStatus(false)

	if len(opts) != 2 {
		t.Fatalf("expected 2 options for a clean tree, got %d", len(opts))
	}
	for _, opt := range opts {
		if opt.Action == ActionStashThenApply {
			t.Error("clean tree offered a stash option with nothing to stash")
		}
	}
	if opts[0].Action != ActionApplyClean || opts[0].Risk != RiskMedium {
		t.Errorf("first option = %+v, want medium-risk apply_clean", opts[0])
	}
}

func TestOptionWording(t *testing.T) {
	for _, dirty := range []bool{true, false} {
		opts := optionsForStatus(dirty)

		var high []Option
		for _, opt := range opts {
			if opt.Risk == RiskHigh {
				high = append(high, opt)
			}
			if strings.Contains(strings.ToLower(opt.Label), "merge") ||
				strings.Contains(strings.ToLower(opt.Description), "merge") {
				t.Errorf("option %q suggests a merge: %q", opt.Label, opt.Description)
			}
		}
		if len(high) != 1 {
			t.Fatalf("dirty=%v: expected exactly one high-risk option, got %d", dirty, len(high))
		}
		if !strings.Contains(high[0].Description, "lost permanently") {
			t.Errorf("high-risk description does not state permanent loss: %q", high[0].Description)
		}
	}
}

func TestPlanRestoreReflectsCurrentState(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)

	mustCreate(t, store, "WU-001", "snap", KindManual)

	plan, err := store.PlanRestore("WU-001", "snap")
	if err != nil {
		t.Fatalf("PlanRestore failed: %v", err)
	}
	if plan.Dirty {
		t.Error("plan reports dirty for a clean tree")
	}

	// Plans are computed fresh: dirtying the tree changes the next plan.
	writeFile(t, "main.go", "package main\n\nfunc main() { println(1) }\n")
	plan, err = store.PlanRestore("WU-001", "snap")
	if err != nil {
		t.Fatalf("PlanRestore failed: %v", err)
	}
	if !plan.Dirty {
		t.Error("plan reports clean for a dirty tree")
	}
	if plan.Options[0].Action != ActionStashThenApply {
		t.Errorf("dirty plan starts with %q, want stash_then_apply", plan.Options[0].Action)
	}
}

func TestPlanRestoreNotFound(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)

	_, err := store.PlanRestore("WU-001", "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestApplyRestoreRoundTrip(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)
	ctx := context.Background()

	original := "package main\n\nfunc main() { println(\"checkpointed\") }\n"
	writeFile(t, "main.go", original)
	mustCreate(t, store, "WU-001", "good-state", KindManual)

	writeFile(t, "main.go", "package main\n\nfunc main() { panic(\"broken\") }\n")

	// Overwrite is always the last option.
	plan, err := store.PlanRestore("WU-001", "good-state")
	if err != nil {
		t.Fatalf("PlanRestore failed: %v", err)
	}
	result, err := store.ApplyRestore(ctx, "WU-001", "good-state", len(plan.Options)-1)
	if err != nil {
		t.Fatalf("ApplyRestore failed: %v", err)
	}

	if got := readFile(t, "main.go"); got != original {
		t.Errorf("restored content = %q, want %q", got, original)
	}
	if result.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", result.FilesChanged)
	}
	if result.Stashed {
		t.Error("overwrite restore reported a stash")
	}
}

func TestApplyRestoreStashesFirst(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)
	ctx := context.Background()

	mustCreate(t, store, "WU-001", "snap", KindManual)

	inFlight := "package main\n\nfunc main() { println(\"in flight\") }\n"
	writeFile(t, "main.go", inFlight)

	result, err := store.ApplyRestore(ctx, "WU-001", "snap", 0)
	if err != nil {
		t.Fatalf("ApplyRestore failed: %v", err)
	}
	if !result.Stashed {
		t.Fatal("stash option did not report a stash")
	}

	stashes := gitRun(t, "stash", "list")
	if !strings.Contains(stashes, "cairn: pre-restore WU-001/snap") {
		t.Errorf("stash list missing cairn entry: %q", stashes)
	}

	// The stashed work round-trips back.
	gitRun(t, "stash", "pop")
	if got := readFile(t, "main.go"); got != inFlight {
		t.Errorf("popped content = %q, want %q", got, inFlight)
	}
}

func TestApplyRestoreStashSparesCheckpointIndex(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)
	ctx := context.Background()

	mustCreate(t, store, "WU-001", "snap", KindManual)
	writeFile(t, "main.go", "package main\n\nfunc main() { println(2) }\n")

	if _, err := store.ApplyRestore(ctx, "WU-001", "snap", 0); err != nil {
		t.Fatalf("ApplyRestore failed: %v", err)
	}

	// The stash must not sweep the checkpoint ledger away with the
	// uncommitted work.
	if _, err := os.Stat(store.Index().Path("WU-001")); err != nil {
		t.Fatalf("index file gone after stash-then-apply: %v", err)
	}
	if _, err := store.Get("WU-001", "snap"); err != nil {
		t.Errorf("checkpoint unreadable after stash-then-apply: %v", err)
	}
}

func TestApplyRestoreIsNonConsuming(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)
	ctx := context.Background()

	mustCreate(t, store, "WU-001", "snap", KindManual)

	for i := 0; i < 2; i++ {
		writeFile(t, "main.go", "package main // scribble\n")
		plan, err := store.PlanRestore("WU-001", "snap")
		if err != nil {
			t.Fatalf("PlanRestore round %d failed: %v", i, err)
		}
		if _, err := store.ApplyRestore(ctx, "WU-001", "snap", len(plan.Options)-1); err != nil {
			t.Fatalf("ApplyRestore round %d failed: %v", i, err)
		}
	}

	if _, err := store.Get("WU-001", "snap"); err != nil {
		t.Errorf("checkpoint gone after restore: %v", err)
	}
}

func TestApplyRestoreOptionOutOfRange(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)

	mustCreate(t, store, "WU-001", "snap", KindManual)

	if _, err := store.ApplyRestore(context.Background(), "WU-001", "snap", 5); err == nil {
		t.Error("expected error for out-of-range option index")
	}
	if _, err := store.ApplyRestore(context.Background(), "WU-001", "snap", -1); err == nil {
		t.Error("expected error for negative option index")
	}
}

func TestApplyRestoreUntrackedFile(t *testing.T) {
	repo := initTestRepo(t)
	store := newTestStore(t, repo)
	ctx := context.Background()

	writeFile(t, "notes.md", "# scratch notes\n")
	mustCreate(t, store, "WU-001", "with-notes", KindManual)

	gitRun(t, "checkout", "--", ".")
	writeFile(t, "notes.md", "clobbered\n")

	plan, err := store.PlanRestore("WU-001", "with-notes")
	if err != nil {
		t.Fatalf("PlanRestore failed: %v", err)
	}
	result, err := store.ApplyRestore(ctx, "WU-001", "with-notes", len(plan.Options)-1)
	if err != nil {
		t.Fatalf("ApplyRestore failed: %v", err)
	}

	if got := readFile(t, "notes.md"); got != "# scratch notes\n" {
		t.Errorf("untracked file not restored from snapshot: %q", got)
	}
	// The untracked file the restore rewrote counts as changed even
	// though plain diff never lists untracked paths.
	if result.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", result.FilesChanged)
	}
}
