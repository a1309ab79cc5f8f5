package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/localops-mcp/internal/prompts"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

const searchStringToolName = "search_string"

// SearchStringArgs represents the arguments for the search_string tool.
type SearchStringArgs struct {
	FolderPath   string `json:"folder_path" jsonschema:"The folder path where the search will be conducted."`
	SearchString string `json:"search_string" jsonschema:"The string to search for in the files."`
}

// FileMatch is a file whose content contains the search string.
type FileMatch struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// SearchResult is the success payload of the search_string tool.
type SearchResult struct {
	Files []FileMatch `json:"files"`
}

// CreateSearchStringTool creates the search_string tool using MCP SDK patterns.
func CreateSearchStringTool(ctx *tools.Context) *tools.ServerTool {
	return tools.NewToolBuilder[SearchStringArgs](searchStringToolName, prompts.SearchStringToolDoc, ctx).
		WithCategory("file").
		WithHandler(searchStringHandler(ctx)).
		Build()
}

func searchStringHandler(ctx *tools.Context) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[SearchStringArgs]) (*mcp.CallToolResultFor[any], error) {
	return func(ctxReq context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchStringArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		logger := ctx.ToolLogger(searchStringToolName)

		logger.Info("Search request",
			"folder_path", args.FolderPath,
			"search_string", args.SearchString)

		if args.FolderPath == "" || args.SearchString == "" {
			return tools.ErrorPayloadResponse("Missing folder or search_string parameter"), nil
		}

		sanitizedPath, err := ctx.Validator.SanitizePath(args.FolderPath)
		if err != nil {
			return tools.ErrorPayloadResponsef("Invalid folder path: %v", err), nil
		}

		if err := ctx.Validator.ValidatePath(sanitizedPath); err != nil {
			return tools.ErrorPayloadResponsef("Path validation failed: %v", err), nil
		}

		info, err := os.Stat(sanitizedPath)
		if err != nil {
			return tools.ErrorPayloadResponse("The provided folder path does not exist"), nil
		}

		if !info.IsDir() {
			logger.Warn("Search path is not a folder", "folder_path", sanitizedPath)
			return tools.JSONResponse(SearchResult{Files: []FileMatch{}}), nil
		}

		matches := searchInFiles(logger, sanitizedPath, args.SearchString)
		logger.Info("Search finished", "folder_path", sanitizedPath, "matches", len(matches))

		return tools.JSONResponse(SearchResult{Files: matches}), nil
	}
}

// searchInFiles walks root and returns every file whose content contains
// needle, ignoring case. Entries that cannot be read are logged and
// skipped. The result is never nil.
func searchInFiles(logger tools.Logger, root, needle string) []FileMatch {
	matches := []FileMatch{}
	lowerNeedle := strings.ToLower(needle)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Could not read path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, ok := regularFileInfo(path, d)
		if !ok {
			return nil
		}

		found, err := fileContains(path, lowerNeedle)
		if err != nil {
			logger.Warn("Could not read file", "path", path, "error", err)
			return nil
		}

		if found {
			matches = append(matches, FileMatch{Path: path, Size: info.Size()})
		}
		return nil
	})

	return matches
}

// regularFileInfo returns the file info of a regular file, following a
// symlink once. Directories, devices, sockets and dangling links are
// rejected.
func regularFileInfo(path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type().IsRegular() {
		info, err := d.Info()
		if err != nil {
			return nil, false
		}
		return info, true
	}

	if d.Type()&fs.ModeSymlink == 0 {
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}

func fileContains(path, lowerNeedle string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	return strings.Contains(strings.ToLower(lossyText(data)), lowerNeedle), nil
}
