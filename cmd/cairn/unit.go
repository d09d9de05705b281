package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/config"
	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
	"github.com/karstlund/cairn/internal/workunit"
)

// newUnitCmd creates the unit command group.
func newUnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Track units of work through their lifecycle",
		Long: `Track units of work through the fixed lifecycle:

  backlog → specifying → testing → implementing → reviewing → done

Advancing into a working state creates an automatic checkpoint (when
auto_checkpoints is enabled); reaching done prunes the unit's automatic
checkpoints while keeping manual ones.`,
	}

	cmd.AddCommand(newUnitNewCmd())
	cmd.AddCommand(newUnitListCmd())
	cmd.AddCommand(newUnitShowCmd())
	cmd.AddCommand(newUnitAdvanceCmd())
	return cmd
}

// newUnitService builds the work-unit service with checkpoint hooks wired
// according to the repository config.
func newUnitService() (*workunit.Service, error) {
	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadRepo(root)
	if err != nil {
		return nil, err
	}

	cpStore, err := checkpoint.DefaultStore()
	if err != nil {
		return nil, err
	}
	wuStore, err := workunit.DefaultStore()
	if err != nil {
		return nil, err
	}

	hooks := workunit.Hooks{
		PruneOnCompletion: cpStore.PruneOnCompletion,
	}
	if cfg.AutoCheckpoints {
		hooks.CreateAuto = func(ctx context.Context, workUnitID, name string) error {
			_, err := cpStore.Create(ctx, workUnitID, name, checkpoint.KindAuto, cfg.IncludeUntracked)
			return err
		}
	}

	return workunit.NewService(wuStore, hooks), nil
}

// newUnitNewCmd creates the unit new command.
func newUnitNewCmd() *cobra.Command {
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "new <id>",
		Short: "Create a work unit in the backlog state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitNew(cmd, args[0], titleFlag)
		},
	}
	cmd.Flags().StringVar(&titleFlag, "title", "", "Short human-readable title")
	return cmd
}

// runUnitNew executes the unit new command.
func runUnitNew(cmd *cobra.Command, id, title string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}
	if err := checkpoint.ValidateWorkUnitID(id); err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	store, err := workunit.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	if store.Exists(id) {
		conflictErr := output.NewConflictError("work unit already exists: " + id)
		printer.Error(conflictErr)
		return conflictErr
	}

	rec := workunit.NewRecord(id, title, time.Now())
	if err := store.Save(rec); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"id":     rec.ID,
			"status": string(rec.Status),
		})
	}
	return printer.Success(map[string]any{"message": "Created work unit " + id + " (backlog)"})
}

// newUnitListCmd creates the unit list command.
func newUnitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all work units",
		Args:  cobra.NoArgs,
		RunE:  runUnitList,
	}
}

// runUnitList executes the unit list command.
func runUnitList(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	store, err := workunit.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	records, err := store.List()
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"work_units": records})
	}

	if len(records) == 0 {
		printer.Println("No work units")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.ID, string(rec.Status), rec.Title})
	}
	printer.Table([]string{"ID", "STATUS", "TITLE"}, rows)
	return nil
}

// newUnitShowCmd creates the unit show command.
func newUnitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a work unit and its checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitShow(cmd, args[0])
		},
	}
}

// runUnitShow executes the unit show command.
func runUnitShow(cmd *cobra.Command, id string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	store, err := workunit.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	rec, err := store.Load(id)
	if err != nil {
		printer.Error(err)
		return err
	}

	cpStore, err := checkpoint.DefaultStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	cps, mismatches, err := cpStore.List(id)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		warnings := make([]string, 0, len(mismatches))
		for _, m := range mismatches {
			warnings = append(warnings, m.String())
		}
		return printer.WriteJSON(map[string]any{
			"work_unit":   rec,
			"checkpoints": cps,
			"warnings":    warnings,
		})
	}

	printer.Section("Work unit " + rec.ID)
	printer.KeyValue("Status", string(rec.Status))
	if rec.Title != "" {
		printer.KeyValue("Title", rec.Title)
	}
	printer.KeyValue("Updated", rec.UpdatedAt.Local().Format("2006-01-02 15:04"))

	for _, m := range mismatches {
		printer.Warn("%s", m.String())
	}
	if len(cps) > 0 {
		printer.Section("Checkpoints")
		rows := make([][]string, 0, len(cps))
		for _, cp := range cps {
			rows = append(rows, []string{cp.Name, string(cp.Kind), cp.ObjectID[:12]})
		}
		printer.Table([]string{"NAME", "KIND", "OBJECT"}, rows)
	}
	return nil
}

// newUnitAdvanceCmd creates the unit advance command.
func newUnitAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a work unit to its next lifecycle state",
		Long: `Move a work unit to its next lifecycle state.

Entering a working state creates an automatic checkpoint named
<id>-auto-<state> (when auto_checkpoints is enabled). The final advance
into done prunes the unit's automatic checkpoints; manual checkpoints are
kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitAdvance(cmd, args[0])
		},
	}
}

// runUnitAdvance executes the unit advance command.
func runUnitAdvance(cmd *cobra.Command, id string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	service, err := newUnitService()
	if err != nil {
		printer.Error(err)
		return err
	}

	result, err := service.Advance(cmd.Context(), id)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	msg := id + ": " + string(result.From) + " → " + string(result.To)
	if err := printer.Success(map[string]any{"message": msg}); err != nil {
		return err
	}
	if result.AutoCheckpoint != "" {
		printer.Println("Created auto checkpoint " + result.AutoCheckpoint)
	}
	if result.Pruned > 0 {
		printer.Println("Pruned", result.Pruned, "auto checkpoint(s)")
	}
	return nil
}
