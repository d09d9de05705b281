package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
)

// newRestoreCmd creates the restore command.
func newRestoreCmd() *cobra.Command {
	var optionFlag int

	cmd := &cobra.Command{
		Use:   "restore <work-unit> <name>",
		Short: "Restore the working tree from a checkpoint",
		Long: `Restore the working tree from a checkpoint.

Without --option, prints the ranked restore plan for the current
working-tree state and makes no changes. Options are ordered by ascending
risk; the overwrite option discards uncommitted changes permanently.

Restoring never consumes the checkpoint: the same checkpoint can be
restored from repeatedly.

Examples:
  cairn restore AUTH-001 before-refactor             # show the plan
  cairn restore AUTH-001 before-refactor --option 1  # apply the safest option
  cairn restore AUTH-001 before-refactor --option 2  # overwrite (destructive)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args[0], args[1], optionFlag)
		},
	}

	cmd.Flags().IntVar(&optionFlag, "option", 0, "Apply the numbered option from the plan (1-based)")
	return cmd
}

// runRestore executes the restore command.
func runRestore(cmd *cobra.Command, workUnit, name string, option int) error {
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

	if option <= 0 {
		return showRestorePlan(printer, store, workUnit, name)
	}
	return applyRestoreOption(cmd, printer, store, workUnit, name, option)
}

// showRestorePlan prints the ranked plan without changing anything.
func showRestorePlan(printer *output.Printer, store *checkpoint.Store, workUnit, name string) error {
	plan, err := store.PlanRestore(workUnit, name)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(plan)
	}

	printer.Section("Restore plan for " + workUnit + "/" + name)
	if plan.Dirty {
		printer.KeyValue("Working tree", "has uncommitted changes")
	} else {
		printer.KeyValue("Working tree", "clean")
	}
	printer.Println()

	styles := printer.Styles()
	for i, opt := range plan.Options {
		risk := string(opt.Risk)
		if opt.Risk == checkpoint.RiskHigh {
			risk = styles.Danger.Render(risk)
		} else {
			risk = styles.Dim.Render(risk)
		}
		printer.Print("  %d. %s [%s]\n", i+1, styles.Bold.Render(opt.Label), risk)
		printer.Print("     %s\n", opt.Description)
	}
	printer.Println()
	printer.Println("Apply with: cairn restore " + workUnit + " " + name + " --option <n>")
	return nil
}

// applyRestoreOption applies the numbered option from a fresh plan.
func applyRestoreOption(cmd *cobra.Command, printer *output.Printer, store *checkpoint.Store, workUnit, name string, option int) error {
	result, err := store.ApplyRestore(cmd.Context(), workUnit, name, option-1)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"work_unit":     workUnit,
			"name":          name,
			"option":        result.Option.Label,
			"files_changed": result.FilesChanged,
			"stashed":       result.Stashed,
		})
	}

	msg := "Restored " + workUnit + "/" + name + " (" + strconv.Itoa(result.FilesChanged) + " files changed)"
	if err := printer.Success(map[string]any{"message": msg}); err != nil {
		return err
	}
	if result.Stashed {
		printer.Println("Your previous changes are in the git stash; recover them with 'git stash pop'.")
	}
	return nil
}
