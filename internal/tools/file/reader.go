package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/localops-mcp/internal/errors"
	"github.com/d-kuro/localops-mcp/internal/prompts"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

const getFilesContentsToolName = "get_files_contents"

var errFileNotFound = errors.New("File not found")

// GetFilesContentsArgs represents the arguments for the get_files_contents tool.
type GetFilesContentsArgs struct {
	Files []string `json:"files" jsonschema:"A list of files with full paths to retrieve the contents from."`
}

// FileError is a per-file failure of a batch read.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// FilesContents is the payload of the get_files_contents tool. Data is
// keyed by the path as it was requested.
type FilesContents struct {
	Data   map[string]string `json:"data"`
	Errors []FileError       `json:"errors,omitempty"`
}

// CreateGetFilesContentsTool creates the get_files_contents tool using MCP SDK patterns.
func CreateGetFilesContentsTool(ctx *tools.Context) *tools.ServerTool {
	return tools.NewToolBuilder[GetFilesContentsArgs](getFilesContentsToolName, prompts.GetFilesContentsToolDoc, ctx).
		WithCategory("file").
		WithHandler(getFilesContentsHandler(ctx)).
		Build()
}

func getFilesContentsHandler(ctx *tools.Context) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[GetFilesContentsArgs]) (*mcp.CallToolResultFor[any], error) {
	return func(ctxReq context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetFilesContentsArgs]) (*mcp.CallToolResultFor[any], error) {
		logger := ctx.ToolLogger(getFilesContentsToolName)
		logger.Info("Reading files", "count", len(params.Arguments.Files))

		contents := readFiles(ctx.Validator, logger, params.Arguments.Files)

		if len(contents.Errors) > 0 {
			logger.Warn("Some files could not be read",
				"read", len(contents.Data),
				"failed", len(contents.Errors))
		}

		return tools.JSONResponse(contents), nil
	}
}

// readFiles reads every path independently. A failure is recorded against
// its path and never stops the batch.
func readFiles(validator tools.Validator, logger tools.Logger, paths []string) *FilesContents {
	contents := &FilesContents{
		Data: make(map[string]string, len(paths)),
	}

	for _, requested := range paths {
		content, err := readTextFile(validator, logger, requested)
		if err != nil {
			logger.Debug("File read failed", "file", requested, "error", err)
			contents.Errors = append(contents.Errors, FileError{File: requested, Error: err.Error()})
			continue
		}
		contents.Data[requested] = content
	}

	return contents
}

func readTextFile(validator tools.Validator, logger tools.Logger, requested string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return "", errFileNotFound
	}

	sanitizedPath, err := validator.SanitizePath(requested)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	if err := validator.ValidatePath(sanitizedPath); err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}

	if _, err := os.Stat(sanitizedPath); os.IsNotExist(err) {
		return "", errFileNotFound
	}

	data, err := os.ReadFile(sanitizedPath)
	if err != nil {
		return "", err
	}

	text, fallback, err := decodeText(data)
	if err != nil {
		return "", err
	}
	if fallback {
		logger.Debug("File is not valid UTF-8, decoded as Latin-1", "file", sanitizedPath)
	}

	return text, nil
}
