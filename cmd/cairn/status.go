package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	"github.com/karstlund/cairn/internal/git"
	"github.com/karstlund/cairn/internal/output"
	"github.com/karstlund/cairn/internal/workunit"
)

// statusResult holds the data for status output.
type statusResult struct {
	Repo        string `json:"repo"`
	Branch      string `json:"branch"`
	Head        string `json:"head"`
	Dirty       bool   `json:"dirty"`
	CairnDir    string `json:"cairn_dir"`
	DirExists   bool   `json:"dir_exists"`
	WorkUnits   int    `json:"work_units"`
	Checkpoints int    `json:"checkpoints"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show repository and checkpoint state",
		Long: `Show the current state of the repository and the cairn metadata.

Displays repository info (name, branch, HEAD, cleanliness), the .cairn/
directory status, and work unit / checkpoint counts.

Examples:
  cairn status          # Human-readable status
  cairn status --json   # Structured output for scripting`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if !git.IsRepo() {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	result, err := gatherStatus()
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects all status information.
func gatherStatus() (*statusResult, error) {
	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}

	branch, err := git.CurrentBranch()
	if err != nil {
		return nil, err
	}

	head, err := git.HEAD()
	if err != nil {
		return nil, err
	}

	cairnDir := filepath.Join(root, ".cairn")
	dirInfo, statErr := os.Stat(cairnDir)
	dirExists := statErr == nil && dirInfo.IsDir()

	result := &statusResult{
		Repo:      filepath.Base(root),
		Branch:    branch,
		Head:      head,
		Dirty:     git.HasUncommittedChanges(),
		CairnDir:  cairnDir,
		DirExists: dirExists,
	}

	wuStore := workunit.NewStore(filepath.Join(root, workunit.DirName))
	records, err := wuStore.List()
	if err != nil {
		return nil, err
	}
	result.WorkUnits = len(records)

	cpStore := checkpoint.NewStore(filepath.Join(root, checkpoint.IndexDirName))
	ids, err := cpStore.Index().WorkUnits()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		idx, err := cpStore.Index().Load(id)
		if err != nil {
			// A corrupt index should not break status; it is reported
			// when that work unit is listed directly.
			continue
		}
		result.Checkpoints += len(idx.Checkpoints)
	}

	return result, nil
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Repository")
	printer.KeyValue("Repo", status.Repo)
	printer.KeyValue("Branch", status.Branch)
	printer.KeyValue("HEAD", status.Head[:min(12, len(status.Head))])
	printer.KeyValue("Working tree", formatDirty(status.Dirty))

	printer.Section("Cairn")
	printer.KeyValue("Directory", status.CairnDir)
	printer.KeyValue("Initialized", formatBool(status.DirExists))
	printer.KeyValue("Work units", strconv.Itoa(status.WorkUnits))
	printer.KeyValue("Checkpoints", strconv.Itoa(status.Checkpoints))
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatDirty describes working-tree cleanliness.
func formatDirty(dirty bool) string {
	if dirty {
		return "uncommitted changes"
	}
	return "clean"
}
