// Package file provides registration for file operation tools.
package file

import (
	"github.com/d-kuro/localops-mcp/internal/tools"
)

// CreateFileTools creates all file operation tools using MCP SDK patterns.
func CreateFileTools(ctx *tools.Context) []*tools.ServerTool {
	return []*tools.ServerTool{
		CreateEditFileTool(ctx),
		CreateGetFilesContentsTool(ctx),
		CreateSearchStringTool(ctx),
	}
}
