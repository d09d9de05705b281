package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/karstlund/cairn/internal/checkpoint"
	cairnmcp "github.com/karstlund/cairn/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run cairn as a Model Context Protocol (MCP) server over stdio.

This exposes checkpoint operations as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "cairn": {
        "command": "cairn",
        "args": ["serve"]
      }
    }
  }

Available tools: checkpoint_create, checkpoint_list, checkpoint_remove,
restore_plan, restore_apply, status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := checkpoint.DefaultStore()
			if err != nil {
				return err
			}
			server := cairnmcp.NewServer(buildVersion(), store)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
