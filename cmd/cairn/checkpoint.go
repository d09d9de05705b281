package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/config"
	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
)

// newCheckpointCmd creates the checkpoint command group.
func newCheckpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Create, list and remove working-tree checkpoints",
		Long: `Manage named snapshots of the working tree, scoped to a work unit.

A checkpoint captures the current state of tracked files (optionally plus
untracked files) as a content-addressed git object, without touching the
current branch, the index, or file modification times.`,
	}

	cmd.AddCommand(newCheckpointCreateCmd())
	cmd.AddCommand(newCheckpointListCmd())
	cmd.AddCommand(newCheckpointRemoveCmd())
	return cmd
}

// newCheckpointCreateCmd creates the checkpoint create command.
func newCheckpointCreateCmd() *cobra.Command {
	var untrackedFlag bool
	var autoFlag bool

	cmd := &cobra.Command{
		Use:   "create <work-unit> <name>",
		Short: "Snapshot the working tree as a named checkpoint",
		Long: `Snapshot the working tree as a named checkpoint for a work unit.

Names are unique per work unit: creating a duplicate fails rather than
silently overwriting. Remove the existing checkpoint first if you want to
replace it.

Examples:
  cairn checkpoint create AUTH-001 before-refactor
  cairn checkpoint create AUTH-001 wip --untracked=false
  cairn checkpoint create AUTH-001 snap --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckpointCreate(cmd, args[0], args[1], untrackedFlag, autoFlag)
		},
	}

	cmd.Flags().BoolVar(&untrackedFlag, "untracked", true, "Also capture files git does not yet track")
	cmd.Flags().BoolVar(&autoFlag, "auto", false, "Mark the checkpoint as automatic (eligible for pruning on completion)")
	_ = cmd.Flags().MarkHidden("auto") // used by workflow tooling, not humans
	return cmd
}

// runCheckpointCreate executes the checkpoint create command.
func runCheckpointCreate(cmd *cobra.Command, workUnit, name string, untracked, auto bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	// Config supplies the default; an explicit flag wins.
	if !cmd.Flags().Changed("untracked") {
		root, err := git.RepoRoot()
		if err != nil {
			printer.Error(err)
			return err
		}
		cfg, err := config.LoadRepo(root)
		if err != nil {
			printer.Error(err)
			return err
		}
		untracked = cfg.IncludeUntracked
	}

	store, err := checkpoint.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	kind := checkpoint.KindManual
	if auto {
		kind = checkpoint.KindAuto
	}

	cp, err := store.Create(cmd.Context(), workUnit, name, kind, untracked)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"work_unit":  cp.WorkUnitID,
			"name":       cp.Name,
			"object_id":  cp.ObjectID,
			"kind":       string(cp.Kind),
			"created_at": cp.CreatedAt.Format(time.RFC3339),
		})
	}

	return printer.Success(map[string]any{
		"message": "Created checkpoint " + cp.Name + " for " + cp.WorkUnitID + " (" + cp.ObjectID[:12] + ")",
	})
}

// newCheckpointListCmd creates the checkpoint list command.
func newCheckpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <work-unit>",
		Short: "List the checkpoints recorded for a work unit",
		Long: `List the checkpoints recorded for a work unit.

The index file is the authoritative listing; the checkpoint ref namespace
is cross-checked opportunistically, and inconsistencies (for example a
leftover ref from an interrupted create) are reported as warnings rather
than failures.

Examples:
  cairn checkpoint list AUTH-001
  cairn checkpoint list AUTH-001 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckpointList(cmd, args[0])
		},
	}
}

// runCheckpointList executes the checkpoint list command.
func runCheckpointList(cmd *cobra.Command, workUnit string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	store, err := checkpoint.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	cps, mismatches, err := store.List(workUnit)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		warnings := make([]string, 0, len(mismatches))
		for _, m := range mismatches {
			warnings = append(warnings, m.String())
		}
		entries := make([]map[string]any, 0, len(cps))
		for _, cp := range cps {
			entries = append(entries, map[string]any{
				"name":       cp.Name,
				"kind":       string(cp.Kind),
				"object_id":  cp.ObjectID,
				"created_at": cp.CreatedAt.Format(time.RFC3339),
			})
		}
		return printer.WriteJSON(map[string]any{
			"work_unit":   workUnit,
			"checkpoints": entries,
			"warnings":    warnings,
		})
	}

	for _, m := range mismatches {
		printer.Warn("%s", m.String())
	}

	if len(cps) == 0 {
		printer.Println("No checkpoints for " + workUnit)
		return nil
	}

	rows := make([][]string, 0, len(cps))
	for _, cp := range cps {
		rows = append(rows, []string{
			cp.Name,
			string(cp.Kind),
			cp.ObjectID[:12],
			cp.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	printer.Table([]string{"NAME", "KIND", "OBJECT", "CREATED"}, rows)
	return nil
}

// newCheckpointRemoveCmd creates the checkpoint remove command.
func newCheckpointRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <work-unit> <name>",
		Short: "Remove a checkpoint by name",
		Long: `Remove a checkpoint by name, regardless of whether it is auto or manual.

The snapshot object becomes unreachable once its ref is deleted and is
eventually garbage-collected by git.

Examples:
  cairn checkpoint remove AUTH-001 before-refactor`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckpointRemove(cmd, args[0], args[1])
		},
	}
}

// runCheckpointRemove executes the checkpoint remove command.
func runCheckpointRemove(cmd *cobra.Command, workUnit, name string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	store, err := checkpoint.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	if err := store.Remove(workUnit, name); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"work_unit": workUnit,
			"removed":   name,
		})
	}
	return printer.Success(map[string]any{
		"message": "Removed checkpoint " + name + " from " + workUnit,
	})
}
