package workunit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// hookRecorder captures hook invocations for assertions.
type hookRecorder struct {
	created []string
	pruned  []string
	prunedN int
}

func (r *hookRecorder) hooks() Hooks {
	return Hooks{
		CreateAuto: func(_ context.Context, _, name string) error {
			r.created = append(r.created, name)
			return nil
		},
		PruneOnCompletion: func(id string) (int, error) {
			r.pruned = append(r.pruned, id)
			return r.prunedN, nil
		},
	}
}

func newTestService(t *testing.T, rec *hookRecorder) *Service {
	t.Helper()
	store := NewStore(t.TempDir())
	if err := store.Save(NewRecord("AUTH-001", "Login flow", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return NewService(store, rec.hooks())
}

func TestAdvanceFullLifecycle(t *testing.T) {
	rec := &hookRecorder{prunedN: 4}
	service := newTestService(t, rec)
	ctx := context.Background()

	wantTransitions := []struct {
		from, to Status
		auto     string
	}{
		{StatusBacklog, StatusSpecifying, "AUTH-001-auto-specifying"},
		{StatusSpecifying, StatusTesting, "AUTH-001-auto-testing"},
		{StatusTesting, StatusImplementing, "AUTH-001-auto-implementing"},
		{StatusImplementing, StatusReviewing, "AUTH-001-auto-reviewing"},
		{StatusReviewing, StatusDone, ""},
	}

	for _, want := range wantTransitions {
		result, err := service.Advance(ctx, "AUTH-001")
		if err != nil {
			t.Fatalf("Advance from %s failed: %v", want.from, err)
		}
		if result.From != want.from || result.To != want.to {
			t.Errorf("transition = %s→%s, want %s→%s", result.From, result.To, want.from, want.to)
		}
		if result.AutoCheckpoint != want.auto {
			t.Errorf("AutoCheckpoint = %q, want %q", result.AutoCheckpoint, want.auto)
		}
	}

	if len(rec.created) != 4 {
		t.Errorf("CreateAuto called %d times, want 4: %v", len(rec.created), rec.created)
	}
	if len(rec.pruned) != 1 || rec.pruned[0] != "AUTH-001" {
		t.Errorf("PruneOnCompletion calls = %v, want exactly one for AUTH-001", rec.pruned)
	}

	got, err := service.Store().Load("AUTH-001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Status != StatusDone {
		t.Errorf("final status = %q, want done", got.Status)
	}
}

func TestAdvanceReportsPrunedCount(t *testing.T) {
	rec := &hookRecorder{prunedN: 3}
	service := newTestService(t, rec)
	ctx := context.Background()

	var result *AdvanceResult
	var err error
	for i := 0; i < 5; i++ {
		result, err = service.Advance(ctx, "AUTH-001")
		if err != nil {
			t.Fatalf("Advance %d failed: %v", i, err)
		}
	}
	if result.To != StatusDone {
		t.Fatalf("final transition to %q, want done", result.To)
	}
	if result.Pruned != 3 {
		t.Errorf("Pruned = %d, want 3", result.Pruned)
	}
}

func TestAdvancePastDone(t *testing.T) {
	rec := &hookRecorder{}
	service := newTestService(t, rec)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Advance(ctx, "AUTH-001"); err != nil {
			t.Fatalf("Advance %d failed: %v", i, err)
		}
	}

	if _, err := service.Advance(ctx, "AUTH-001"); err == nil {
		t.Error("Advance past done succeeded")
	}
	if len(rec.pruned) != 1 {
		t.Errorf("PruneOnCompletion called %d times, want 1", len(rec.pruned))
	}
}

func TestAdvanceUnknownUnit(t *testing.T) {
	rec := &hookRecorder{}
	service := newTestService(t, rec)

	if _, err := service.Advance(context.Background(), "WU-404"); err == nil {
		t.Error("Advance of unknown work unit succeeded")
	}
}

func TestAdvanceWithoutAutoHook(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(NewRecord("WU-001", "", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	service := NewService(store, Hooks{})

	result, err := service.Advance(context.Background(), "WU-001")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if result.AutoCheckpoint != "" {
		t.Errorf("AutoCheckpoint = %q, want empty with auto checkpoints disabled", result.AutoCheckpoint)
	}
}

func TestAdvanceHookFailureBlocksTransition(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(NewRecord("WU-001", "", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	hookErr := errors.New("snapshot capture failed")
	service := NewService(store, Hooks{
		CreateAuto: func(context.Context, string, string) error { return hookErr },
	})

	_, err := service.Advance(context.Background(), "WU-001")
	if !errors.Is(err, hookErr) {
		t.Fatalf("Advance error = %v, want the hook failure", err)
	}

	// A failed checkpoint leaves the unit in its previous state.
	rec, err := store.Load("WU-001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Status != StatusBacklog {
		t.Errorf("status = %q, want backlog after failed hook", rec.Status)
	}
}

func TestAutoCheckpointName(t *testing.T) {
	got := AutoCheckpointName("AUTH-001", StatusTesting)
	if got != "AUTH-001-auto-testing" {
		t.Errorf("AutoCheckpointName = %q, want AUTH-001-auto-testing", got)
	}
}
