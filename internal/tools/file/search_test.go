package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-kuro/localops-mcp/internal/tools"
)

func callSearchString(t *testing.T, ctx *tools.Context, folder, needle string) *mcp.CallToolResultFor[any] {
	t.Helper()
	result, err := searchStringHandler(ctx)(context.Background(), nil,
		&mcp.CallToolParamsFor[SearchStringArgs]{Arguments: SearchStringArgs{FolderPath: folder, SearchString: needle}})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestSearchString_SingleMatchWithSize(t *testing.T) {
	ctx, _ := createTestContext()
	root := t.TempDir()
	matchContent := "export default function somecomponent() {}\n"
	writeTree(t, root, map[string]string{
		"src/widget.tsx": matchContent,
		"src/other.tsx":  "nothing to see here\n",
	})

	result := callSearchString(t, ctx, root, "SomeComponent")
	require.False(t, result.IsError, tools.ResultText(result))

	var payload SearchResult
	require.NoError(t, tools.DecodeResult(result, &payload))
	require.Len(t, payload.Files, 1)
	assert.Equal(t, filepath.Join(root, "src", "widget.tsx"), payload.Files[0].Path)
	assert.Equal(t, int64(len(matchContent)), payload.Files[0].Size)
}

func TestSearchString_CaseInsensitive(t *testing.T) {
	ctx, _ := createTestContext()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"upper.txt":         "XYZ ABC",
		"nested/deep/lower": "abc",
		"none.txt":          "ab c",
	})

	result := callSearchString(t, ctx, root, "abc")

	var payload SearchResult
	require.NoError(t, tools.DecodeResult(result, &payload))

	paths := make([]string, 0, len(payload.Files))
	for _, f := range payload.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		filepath.Join(root, "nested", "deep", "lower"),
		filepath.Join(root, "upper.txt"),
	}, paths)
}

func TestSearchString_NoMatchIsEmptyList(t *testing.T) {
	ctx, _ := createTestContext()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "alpha"})

	result := callSearchString(t, ctx, root, "omega")
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"files": []}`, tools.ResultText(result))
}

func TestSearchString_IgnoresInvalidUTF8(t *testing.T) {
	ctx, _ := createTestContext()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.dat"), []byte{0xFF, 'n', 'e', 0xFE, 'e', 'd', 'l', 'e'}, 0644))

	result := callSearchString(t, ctx, root, "NEEDLE")

	var payload SearchResult
	require.NoError(t, tools.DecodeResult(result, &payload))
	require.Len(t, payload.Files, 1)
	assert.Equal(t, int64(8), payload.Files[0].Size)
}

func TestSearchString_MissingParameters(t *testing.T) {
	ctx, _ := createTestContext()

	for _, args := range [][2]string{{"", "x"}, {t.TempDir(), ""}} {
		result := callSearchString(t, ctx, args[0], args[1])
		require.True(t, result.IsError)

		var payload tools.ErrorPayload
		require.NoError(t, tools.DecodeResult(result, &payload))
		assert.Equal(t, "Missing folder or search_string parameter", payload.Error)
	}
}

func TestSearchString_MissingFolder(t *testing.T) {
	ctx, logger := createTestContext()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	result := callSearchString(t, ctx, missing, "anything")
	require.True(t, result.IsError)

	var payload tools.ErrorPayload
	require.NoError(t, tools.DecodeResult(result, &payload))
	assert.Equal(t, "The provided folder path does not exist", payload.Error)
	assert.False(t, logger.contains("Search finished"), "no walk should happen")
}

func TestSearchString_FileAsFolderFindsNothing(t *testing.T) {
	ctx, logger := createTestContext()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"only.txt": "needle"})

	result := callSearchString(t, ctx, filepath.Join(root, "only.txt"), "needle")
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"files": []}`, tools.ResultText(result))
	assert.True(t, logger.contains("Search path is not a folder"))
}

func TestSearchString_SkipsUnreadableFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission")
	}

	ctx, logger := createTestContext()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"locked.txt": "needle",
		"open.txt":   "needle",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.txt"), 0000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked.txt"), 0644) })

	result := callSearchString(t, ctx, root, "needle")
	require.False(t, result.IsError)

	var payload SearchResult
	require.NoError(t, tools.DecodeResult(result, &payload))
	require.Len(t, payload.Files, 1)
	assert.Equal(t, filepath.Join(root, "open.txt"), payload.Files[0].Path)
	assert.True(t, logger.contains("Could not read file"))
}

func TestSearchString_FollowsFileSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	ctx, _ := createTestContext()
	outside := t.TempDir()
	root := t.TempDir()
	writeTree(t, outside, map[string]string{"target.txt": "linked needle"})
	require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	result := callSearchString(t, ctx, root, "needle")

	var payload SearchResult
	require.NoError(t, tools.DecodeResult(result, &payload))
	require.Len(t, payload.Files, 1)
	assert.Equal(t, filepath.Join(root, "link.txt"), payload.Files[0].Path)
	assert.Equal(t, int64(len("linked needle")), payload.Files[0].Size)
}
