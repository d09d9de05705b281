// Package main provides the entry point for the cairn CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/config"
	"github.com/karstlund/cairn/internal/envfile"
	"github.com/karstlund/cairn/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// colorMode reads the --color persistent flag ("auto", "always", "never").
func colorMode(cmd *cobra.Command) string {
	flag := cmd.Flags().Lookup("color")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("color")
	}
	if flag == nil {
		return "auto"
	}
	return flag.Value.String()
}

// useColor resolves the effective color setting for a command's output.
func useColor(cmd *cobra.Command) bool {
	return output.ResolveColorMode(colorMode(cmd), output.IsTTY(cmd.OutOrStdout()))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the cairn CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cairn",
		Short: "Work-unit checkpoints for AI-agent workflows",
		Long: `Cairn - named, restorable snapshots of your working tree, scoped to units of work.

Cairn lets an agent (or a human) mark known-good states before risky edits:
  - Checkpoints are content-addressed git tree objects pinned by refs
  - Each work unit keeps its own checkpoint ledger under .cairn/
  - Restores are risk-ranked: stash-then-apply, or overwrite with an explicit warning
  - Auto checkpoints at lifecycle transitions are pruned when the work unit is done

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If --json flag is set but no subcommand, output JSON error
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'cairn --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) for CAIRN_* overrides that can't be
	// exported to env. Environment variables always take precedence.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Colorize output: auto, always, never")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local       (per-repo override, gitignored)
//  2. $CWD/.env             (per-repo)
//  3. ~/.config/cairn/env   (global fallback)
func loadEnvFiles() {
	_ = envfile.Load(".env.local")
	_ = envfile.Load(".env")

	if dir := config.Dir(); dir != "" {
		_ = envfile.Load(filepath.Join(dir, "env"))
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "checkpoint", Title: "Checkpoint Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "work", Title: "Work Unit Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newCheckpointCmd(), "checkpoint")
	addGroupedCommand(cmd, newRestoreCmd(), "checkpoint")

	addGroupedCommand(cmd, newUnitCmd(), "work")

	addGroupedCommand(cmd, newServeCmd(), "agent")

	addGroupedCommand(cmd, newInitCmd(), "admin")
	addGroupedCommand(cmd, newStatusCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
