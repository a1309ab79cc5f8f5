// Package command provides registration for command execution tools.
package command

import (
	"github.com/d-kuro/localops-mcp/internal/tools"
)

// CreateCommandTools creates all command execution tools using MCP SDK patterns.
func CreateCommandTools(ctx *tools.Context, opts Options) []*tools.ServerTool {
	return []*tools.ServerTool{
		CreateExecuteCommandTool(ctx, NewShellExecutor(opts)),
	}
}
