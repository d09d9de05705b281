package workunit

import (
	"context"
	"fmt"

	"github.com/karstlund/cairn/internal/output"
)

// Hooks are the checkpoint-side effects of lifecycle transitions. The
// work-unit machinery never edits checkpoint state directly; it only
// invokes these at the defined trigger points. Direct function calls,
// not an event bus: there is exactly one well-known trigger.
type Hooks struct {
	// CreateAuto creates an automatic checkpoint before entering a
	// working state. nil disables auto checkpoints.
	CreateAuto func(ctx context.Context, workUnitID, name string) error

	// PruneOnCompletion removes the work unit's auto checkpoints when
	// it reaches the terminal state. Returns the number removed.
	PruneOnCompletion func(workUnitID string) (int, error)
}

// AdvanceResult reports one lifecycle transition.
type AdvanceResult struct {
	From           Status `json:"from"`
	To             Status `json:"to"`
	AutoCheckpoint string `json:"auto_checkpoint,omitempty"`
	Pruned         int    `json:"pruned,omitempty"`
}

// Service orchestrates lifecycle transitions over a Store.
type Service struct {
	store *Store
	hooks Hooks
}

// NewService creates a Service.
func NewService(store *Store, hooks Hooks) *Service {
	return &Service{store: store, hooks: hooks}
}

// Store returns the underlying record store.
func (s *Service) Store() *Store {
	return s.store
}

// AutoCheckpointName returns the name used for the automatic checkpoint
// created when a work unit enters the given status.
func AutoCheckpointName(workUnitID string, status Status) string {
	return workUnitID + "-auto-" + string(status)
}

// Advance moves a work unit to its next lifecycle state and performs the
// transition's checkpoint side effects:
//
//   - entering a non-terminal working state creates an auto checkpoint
//     named <id>-auto-<status> (when auto checkpoints are enabled)
//   - entering done prunes the unit's auto checkpoints, exactly once,
//     after the transition is durable
func (s *Service) Advance(ctx context.Context, id string) (*AdvanceResult, error) {
	rec, err := s.store.Load(id)
	if err != nil {
		return nil, err
	}

	next, ok := Next(rec.Status)
	if !ok {
		return nil, output.NewUserError(fmt.Sprintf("work unit %s is already %s and cannot advance", id, rec.Status))
	}

	result := &AdvanceResult{From: rec.Status, To: next}

	if !next.Terminal() && s.hooks.CreateAuto != nil {
		name := AutoCheckpointName(id, next)
		if err := s.hooks.CreateAuto(ctx, id, name); err != nil {
			return nil, err
		}
		result.AutoCheckpoint = name
	}

	rec.Status = next
	rec.UpdatedAt = nowFunc().UTC()
	if err := s.store.Save(rec); err != nil {
		return nil, err
	}

	if next.Terminal() && s.hooks.PruneOnCompletion != nil {
		pruned, err := s.hooks.PruneOnCompletion(id)
		if err != nil {
			return nil, err
		}
		result.Pruned = pruned
	}

	return result, nil
}
