package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/config"
	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
	"github.com/karstlund/cairn/internal/workunit"
)

// initStepResult tracks the result of a single initialization step.
type initStepResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok" or "exists"
	Message string `json:"message,omitempty"`
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cairn in the current repository",
		Long: `Initialize cairn in the current repository.

Creates the .cairn/ directory layout:
  .cairn/config.yml    per-repository settings
  .cairn/checkpoints/  per-work-unit checkpoint indexes
  .cairn/work/         work unit records

The command is idempotent - safe to run multiple times.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	root, err := git.RepoRoot()
	if err != nil {
		printer.Error(err)
		return err
	}

	var steps []initStepResult

	for _, dir := range []string{checkpoint.IndexDirName, workunit.DirName} {
		path := filepath.Join(root, dir)
		status := "ok"
		if _, statErr := os.Stat(path); statErr == nil {
			status = "exists"
		} else if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
			sysErr := output.NewSystemErrorWithCause("failed to create "+dir, mkErr)
			printer.Error(sysErr)
			return sysErr
		}
		steps = append(steps, initStepResult{Name: dir, Status: status})
	}

	written, err := config.WriteDefaultRepo(root)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to write config", err)
		printer.Error(sysErr)
		return sysErr
	}
	cfgStatus := "exists"
	if written {
		cfgStatus = "ok"
	}
	steps = append(steps, initStepResult{Name: config.FileName, Status: cfgStatus})

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"steps": steps})
	}

	for _, step := range steps {
		label := "created"
		if step.Status == "exists" {
			label = "already present"
		}
		printer.Println("  " + step.Name + ": " + label)
	}
	return printer.Success(map[string]any{"message": "Cairn initialized"})
}
