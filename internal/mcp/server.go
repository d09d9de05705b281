// Package mcp provides a Model Context Protocol server for cairn.
// It exposes checkpoint operations as MCP tools so an agent can snapshot
// and roll back its own risky edits.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/karstlund/cairn/internal/checkpoint"
)

// NewServer creates an MCP server with all cairn tools registered.
func NewServer(version string, store *checkpoint.Store) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cairn",
		Version: version,
	}, nil)
	registerTools(server, store)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for additive write tools.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// destructiveAnnotations returns annotations for tools that can discard
// working-tree changes or delete checkpoints.
func destructiveAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all cairn tools to the server.
func registerTools(server *mcp.Server, store *checkpoint.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkpoint_create",
		Description: "Create a named checkpoint of the current working tree for a work unit. Use before risky edits so they can be undone.",
		Annotations: writeAnnotations(),
	}, handleCreate(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkpoint_list",
		Description: "List the checkpoints recorded for a work unit, with any ref/index consistency warnings.",
		Annotations: readOnlyAnnotations(),
	}, handleList(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkpoint_remove",
		Description: "Remove a checkpoint by name. Works for both auto and manual checkpoints.",
		Annotations: destructiveAnnotations(),
	}, handleRemove(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore_plan",
		Description: "Get the ranked restore options for a checkpoint, based on current working-tree cleanliness. Does not change anything.",
		Annotations: readOnlyAnnotations(),
	}, handlePlan(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore_apply",
		Description: "Apply a restore option from a fresh plan. Option 1 is the safest; the overwrite option discards uncommitted changes permanently.",
		Annotations: destructiveAnnotations(),
	}, handleApply(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Report working-tree cleanliness and the checkpoint count per work unit.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(store))
}
