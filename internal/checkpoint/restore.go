package checkpoint

import (
	"context"
	"fmt"

	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
)

// RiskLevel ranks restore options from least to most destructive.
type RiskLevel string

// Risk levels in ascending order.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Action identifies the concrete restore strategy an option performs.
type Action string

// Restore actions. There is no merge action: cairn performs no conflict
// resolution, and the option wording must never suggest one.
const (
	// ActionStashThenApply stashes current changes under a recoverable
	// stash entry, then overwrites the working tree from the snapshot.
	ActionStashThenApply Action = "stash_then_apply"
	// ActionApplyClean overwrites a clean working tree from the
	// snapshot. Nothing uncommitted exists, so nothing can be lost.
	ActionApplyClean Action = "apply_clean"
	// ActionOverwrite overwrites the working tree from the snapshot and
	// discards uncommitted changes outright.
	ActionOverwrite Action = "overwrite"
)

// Option is one possible restoration action. Options are transient values
// produced fresh from current working-tree state on every restore
// invocation; they are never persisted or cached.
type Option struct {
	Label       string    `json:"label"`
	Risk        RiskLevel `json:"risk"`
	Description string    `json:"description"`
	Action      Action    `json:"action"`
}

// Plan is the ranked set of restore options for one checkpoint, ordered
// by ascending risk.
type Plan struct {
	WorkUnitID string   `json:"work_unit_id"`
	Name       string   `json:"name"`
	ObjectID   string   `json:"object_id"`
	Dirty      bool     `json:"dirty"`
	Options    []Option `json:"options"`
}

// Result reports what a restore changed.
type Result struct {
	FilesChanged int    `json:"files_changed"`
	Stashed      bool   `json:"stashed"`
	Option       Option `json:"option"`
}

// PlanRestore inspects working-tree cleanliness and returns the ranked
// restore options for the named checkpoint. Fails with NotFoundError if
// the index has no record of the name.
func (s *Store) PlanRestore(workUnitID, name string) (*Plan, error) {
	cp, err := s.Get(workUnitID, name)
	if err != nil {
		return nil, err
	}

	dirty := git.HasUncommittedChanges()
	return &Plan{
		WorkUnitID: workUnitID,
		Name:       name,
		ObjectID:   cp.ObjectID,
		Dirty:      dirty,
		Options:    optionsForStatus(dirty),
	}, nil
}

// optionsForStatus builds the option list for the given working-tree
// state, in ascending risk order. The stash option only exists when there
// is something to stash; a clean tree gets the inherently non-destructive
// apply instead. The overwrite option is always offered last and its
// wording states the permanent loss outright.
func optionsForStatus(dirty bool) []Option {
	var opts []Option
	if dirty {
		opts = append(opts, Option{
			Label:       "Stash current changes, then apply checkpoint",
			Risk:        RiskLow,
			Description: "Saves your uncommitted changes to the git stash before applying the checkpoint. Recover them later with 'git stash pop'.",
			Action:      ActionStashThenApply,
		})
	} else {
		opts = append(opts, Option{
			Label:       "Apply checkpoint",
			Risk:        RiskMedium,
			Description: "The working tree is clean, so applying the checkpoint cannot lose uncommitted work.",
			Action:      ActionApplyClean,
		})
	}
	opts = append(opts, Option{
		Label:       "Overwrite files (discard changes)",
		Risk:        RiskHigh,
		Description: "Replaces working-tree files with the checkpoint contents. Current uncommitted changes will be lost permanently unless you commit or stash them first. There is no conflict resolution step.",
		Action:      ActionOverwrite,
	})
	return opts
}

// ApplyRestore executes the restore option at optionIndex from a freshly
// computed plan. Plans are rebuilt here rather than accepted from the
// caller because working-tree state may have changed since the plan was
// shown. Restoring is non-consuming: the checkpoint remains afterwards
// and can be restored again.
func (s *Store) ApplyRestore(ctx context.Context, workUnitID, name string, optionIndex int) (*Result, error) {
	plan, err := s.PlanRestore(workUnitID, name)
	if err != nil {
		return nil, err
	}
	if optionIndex < 0 || optionIndex >= len(plan.Options) {
		return nil, output.NewUserError(fmt.Sprintf("restore option %d out of range (plan has %d options)", optionIndex+1, len(plan.Options)))
	}

	opt := plan.Options[optionIndex]
	result := &Result{Option: opt}

	if opt.Action == ActionStashThenApply {
		msg := fmt.Sprintf("cairn: pre-restore %s/%s", workUnitID, name)
		if err := git.StashPush(ctx, msg); err != nil {
			return nil, err
		}
		result.Stashed = true
	}

	// Count before mutating: afterwards the diff is empty by definition.
	changed, err := git.DiffNamesAgainst(plan.ObjectID)
	if err != nil {
		return nil, err
	}
	result.FilesChanged = len(changed)

	if err := git.RestoreWorktreeFrom(ctx, plan.ObjectID); err != nil {
		return nil, err
	}
	return result, nil
}
