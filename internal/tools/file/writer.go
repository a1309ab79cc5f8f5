// Package file provides file operation tools using the MCP SDK patterns.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/localops-mcp/internal/prompts"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

const editFileToolName = "edit_file"

// EditFileArgs represents the arguments for the edit_file tool.
type EditFileArgs struct {
	FilePath   string `json:"file_path" jsonschema:"The full file path of the file to be edited."`
	NewContent string `json:"new_content" jsonschema:"The new content to be written to the file."`
}

// EditFileResult is the success payload of the edit_file tool.
type EditFileResult struct {
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

// CreateEditFileTool creates the edit_file tool using MCP SDK patterns.
func CreateEditFileTool(ctx *tools.Context) *tools.ServerTool {
	return tools.NewToolBuilder[EditFileArgs](editFileToolName, prompts.EditFileToolDoc, ctx).
		WithCategory("file").
		WithHandler(editFileHandler(ctx)).
		Build()
}

func editFileHandler(ctx *tools.Context) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[EditFileArgs]) (*mcp.CallToolResultFor[any], error) {
	return func(ctxReq context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EditFileArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		logger := ctx.ToolLogger(editFileToolName)

		if args.FilePath == "" || args.NewContent == "" {
			logger.Error("file_path and new_content are required")
			return tools.ErrorPayloadResponse("file_path and new_content are required"), nil
		}

		sanitizedPath, err := ctx.Validator.SanitizePath(args.FilePath)
		if err != nil {
			logger.Error("Invalid file path", "file_path", args.FilePath, "error", err)
			return tools.ErrorPayloadResponsef("Invalid file path: %v", err), nil
		}

		if err := ctx.Validator.ValidatePath(sanitizedPath); err != nil {
			logger.Error("Path validation failed", "file_path", sanitizedPath, "error", err)
			return tools.ErrorPayloadResponsef("Path validation failed: %v", err), nil
		}

		logger.Info("Editing file with new content", "file_path", sanitizedPath)

		bytesWritten, err := writeFileContent(sanitizedPath, args.NewContent)
		if err != nil {
			logger.Error("Failed to update file", "file_path", sanitizedPath, "error", err)
			return tools.ErrorPayloadResponsef("Failed to update file: %v", err), nil
		}

		logger.Info("File updated successfully", "file_path", sanitizedPath, "bytes", bytesWritten)

		return tools.JSONResponse(EditFileResult{
			Message:  "File updated successfully",
			FilePath: args.FilePath,
		}), nil
	}
}

// writeFileContent replaces the whole content of filePath, creating the
// file if needed. Parent directories must exist.
func writeFileContent(filePath, content string) (int, error) {
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}

	bytesWritten, err := file.WriteString(content)
	if err != nil {
		_ = file.Close()
		return bytesWritten, fmt.Errorf("failed to write content: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		return bytesWritten, fmt.Errorf("failed to sync file: %w", err)
	}

	if err := file.Close(); err != nil {
		return bytesWritten, fmt.Errorf("failed to close file: %w", err)
	}

	return bytesWritten, nil
}
