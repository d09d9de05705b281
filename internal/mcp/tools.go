package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/git"
)

// CheckpointSummary is a simplified checkpoint for tool output.
type CheckpointSummary struct {
	Name      string `json:"name"       jsonschema:"checkpoint name"`
	Kind      string `json:"kind"       jsonschema:"auto or manual"`
	ObjectID  string `json:"object_id"  jsonschema:"content-addressed snapshot id"`
	CreatedAt string `json:"created_at" jsonschema:"creation timestamp"`
}

func toSummaries(cps []*checkpoint.Checkpoint) []CheckpointSummary {
	out := make([]CheckpointSummary, 0, len(cps))
	for _, cp := range cps {
		out = append(out, CheckpointSummary{
			Name:      cp.Name,
			Kind:      string(cp.Kind),
			ObjectID:  cp.ObjectID,
			CreatedAt: cp.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// --- checkpoint_create ---

// CreateInput is the input for the checkpoint_create tool.
type CreateInput struct {
	WorkUnit         string `json:"work_unit"                   jsonschema:"work unit id owning the checkpoint"`
	Name             string `json:"name"                        jsonschema:"checkpoint name, unique within the work unit"`
	IncludeUntracked bool   `json:"include_untracked,omitempty" jsonschema:"also capture files git does not yet track"`
}

// CreateOutput is the output for the checkpoint_create tool.
type CreateOutput struct {
	Checkpoint CheckpointSummary `json:"checkpoint" jsonschema:"the created checkpoint"`
}

func handleCreate(store *checkpoint.Store) mcp.ToolHandlerFor[CreateInput, CreateOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, CreateOutput, error) {
		cp, err := store.Create(ctx, input.WorkUnit, input.Name, checkpoint.KindManual, input.IncludeUntracked)
		if err != nil {
			return nil, CreateOutput{}, fmt.Errorf("creating checkpoint: %w", err)
		}
		return nil, CreateOutput{Checkpoint: toSummaries([]*checkpoint.Checkpoint{cp})[0]}, nil
	}
}

// --- checkpoint_list ---

// ListInput is the input for the checkpoint_list tool.
type ListInput struct {
	WorkUnit string `json:"work_unit" jsonschema:"work unit id to list checkpoints for"`
}

// ListOutput is the output for the checkpoint_list tool.
type ListOutput struct {
	Checkpoints []CheckpointSummary `json:"checkpoints"        jsonschema:"checkpoints recorded in the index"`
	Warnings    []string            `json:"warnings,omitempty" jsonschema:"ref/index consistency warnings"`
}

func handleList(store *checkpoint.Store) mcp.ToolHandlerFor[ListInput, ListOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
		cps, mismatches, err := store.List(input.WorkUnit)
		if err != nil {
			return nil, ListOutput{}, fmt.Errorf("listing checkpoints: %w", err)
		}

		out := ListOutput{Checkpoints: toSummaries(cps)}
		for _, m := range mismatches {
			out.Warnings = append(out.Warnings, m.String())
		}
		return nil, out, nil
	}
}

// --- checkpoint_remove ---

// RemoveInput is the input for the checkpoint_remove tool.
type RemoveInput struct {
	WorkUnit string `json:"work_unit" jsonschema:"work unit id owning the checkpoint"`
	Name     string `json:"name"      jsonschema:"checkpoint name to remove"`
}

// RemoveOutput is the output for the checkpoint_remove tool.
type RemoveOutput struct {
	Removed string `json:"removed" jsonschema:"name of the removed checkpoint"`
}

func handleRemove(store *checkpoint.Store) mcp.ToolHandlerFor[RemoveInput, RemoveOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RemoveInput) (*mcp.CallToolResult, RemoveOutput, error) {
		if err := store.Remove(input.WorkUnit, input.Name); err != nil {
			return nil, RemoveOutput{}, fmt.Errorf("removing checkpoint: %w", err)
		}
		return nil, RemoveOutput{Removed: input.Name}, nil
	}
}

// --- restore_plan ---

// PlanInput is the input for the restore_plan tool.
type PlanInput struct {
	WorkUnit string `json:"work_unit" jsonschema:"work unit id owning the checkpoint"`
	Name     string `json:"name"      jsonschema:"checkpoint name to plan a restore for"`
}

// PlanOption is one restore option for tool output.
type PlanOption struct {
	Number      int    `json:"number"      jsonschema:"1-based option number to pass to restore_apply"`
	Label       string `json:"label"       jsonschema:"short option label"`
	Risk        string `json:"risk"        jsonschema:"risk level: low, medium or high"`
	Description string `json:"description" jsonschema:"what the option does and what it can lose"`
}

// PlanOutput is the output for the restore_plan tool.
type PlanOutput struct {
	Dirty   bool         `json:"dirty"   jsonschema:"whether the working tree has uncommitted changes"`
	Options []PlanOption `json:"options" jsonschema:"restore options in ascending risk order"`
}

func handlePlan(store *checkpoint.Store) mcp.ToolHandlerFor[PlanInput, PlanOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, PlanOutput, error) {
		plan, err := store.PlanRestore(input.WorkUnit, input.Name)
		if err != nil {
			return nil, PlanOutput{}, fmt.Errorf("planning restore: %w", err)
		}

		out := PlanOutput{Dirty: plan.Dirty}
		for i, opt := range plan.Options {
			out.Options = append(out.Options, PlanOption{
				Number:      i + 1,
				Label:       opt.Label,
				Risk:        string(opt.Risk),
				Description: opt.Description,
			})
		}
		return nil, out, nil
	}
}

// --- restore_apply ---

// ApplyInput is the input for the restore_apply tool.
type ApplyInput struct {
	WorkUnit string `json:"work_unit" jsonschema:"work unit id owning the checkpoint"`
	Name     string `json:"name"      jsonschema:"checkpoint name to restore"`
	Option   int    `json:"option"    jsonschema:"1-based option number from restore_plan"`
}

// ApplyOutput is the output for the restore_apply tool.
type ApplyOutput struct {
	FilesChanged int    `json:"files_changed" jsonschema:"number of files the restore touched"`
	Stashed      bool   `json:"stashed"       jsonschema:"whether current changes were stashed first"`
	Option       string `json:"option"        jsonschema:"label of the applied option"`
}

func handleApply(store *checkpoint.Store) mcp.ToolHandlerFor[ApplyInput, ApplyOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ApplyInput) (*mcp.CallToolResult, ApplyOutput, error) {
		result, err := store.ApplyRestore(ctx, input.WorkUnit, input.Name, input.Option-1)
		if err != nil {
			return nil, ApplyOutput{}, fmt.Errorf("applying restore: %w", err)
		}
		return nil, ApplyOutput{
			FilesChanged: result.FilesChanged,
			Stashed:      result.Stashed,
			Option:       result.Option.Label,
		}, nil
	}
}

// --- status ---

// StatusInput is the input for the status tool.
type StatusInput struct{}

// WorkUnitStatus summarizes one work unit's checkpoints.
type WorkUnitStatus struct {
	WorkUnit    string `json:"work_unit"   jsonschema:"work unit id"`
	Checkpoints int    `json:"checkpoints" jsonschema:"number of checkpoints in the index"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Dirty     bool             `json:"dirty"      jsonschema:"whether the working tree has uncommitted changes"`
	WorkUnits []WorkUnitStatus `json:"work_units" jsonschema:"per-work-unit checkpoint counts"`
}

func handleStatus(store *checkpoint.Store) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		ids, err := store.Index().WorkUnits()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("reading work units: %w", err)
		}

		out := StatusOutput{Dirty: git.HasUncommittedChanges()}
		for _, id := range ids {
			idx, err := store.Index().Load(id)
			if err != nil {
				// Corrupt indexes are reported by checkpoint_list for the
				// affected work unit; status skips them.
				continue
			}
			out.WorkUnits = append(out.WorkUnits, WorkUnitStatus{
				WorkUnit:    id,
				Checkpoints: len(idx.Checkpoints),
			})
		}
		return nil, out, nil
	}
}
