package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-markview/pkg/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func childNames(node *models.DocumentNode) []string {
	var names []string
	for _, c := range node.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.md", true},
		{"README.MD", true},
		{"guide.markdown", true},
		{"todo.txt", true},
		{"image.png", false},
		{"Makefile", false},
		{"archive.md.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDocument(tt.path))
		})
	}
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, filepath.Join(root, "a.md"), "# A\n## A.1\n")
	writeFile(t, filepath.Join(root, ".git", "notes.md"), "# hidden")
	writeFile(t, filepath.Join(root, ".draft.md"), "# hidden too")

	node, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 2)
	require.NoError(t, err)

	assert.True(t, node.IsFolder)
	assert.Equal(t, "docs", node.Name)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "a.md", node.Children[0].Name)
	assert.False(t, node.Children[0].IsFolder)
	assert.Empty(t, node.Children[0].Children)
	assert.Equal(t, filepath.Join(root, "a.md"), node.Children[0].Path)
}

func TestScanOrdersFoldersBeforeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "")
	writeFile(t, filepath.Join(root, "z", "inner.md"), "")
	writeFile(t, filepath.Join(root, "b.txt"), "")
	writeFile(t, filepath.Join(root, "image.png"), "")

	node, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a.md", "b.txt"}, childNames(node))
	assert.Equal(t, []string{"inner.md"}, childNames(node.Children[0]))
}

func TestScanStopsAtDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one", "two", "three", "deep.md"), "")
	writeFile(t, filepath.Join(root, "one", "two", "shallow.md"), "")

	node, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 2)
	require.NoError(t, err)

	require.Len(t, node.Children, 1)
	one := node.Children[0]
	require.Len(t, one.Children, 1)
	two := one.Children[0]
	assert.True(t, two.IsFolder)
	assert.Empty(t, two.Children, "folders at the depth limit are leaves")

	zero, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 0)
	require.NoError(t, err)
	assert.Empty(t, zero.Children)
}

func TestScanCapsFoldersPerDirectory(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < MaxFoldersPerDir+5; i++ {
		require.NoError(t, os.Mkdir(filepath.Join(root, fmt.Sprintf("dir-%03d", i)), 0755))
	}
	writeFile(t, filepath.Join(root, "index.md"), "")

	node, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 1)
	require.NoError(t, err)

	var folders, files int
	for _, c := range node.Children {
		if c.IsFolder {
			folders++
		} else {
			files++
		}
	}
	assert.Equal(t, MaxFoldersPerDir, folders)
	assert.Equal(t, 1, files)
}

func TestScanCapsFilesPerDirectory(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 12; i++ {
		writeFile(t, filepath.Join(root, fmt.Sprintf("note-%02d.md", i)), "")
	}
	writeFile(t, filepath.Join(root, "sub", "kept.md"), "")

	node, err := NewScanner(nil, Options{MaxFiles: 10}).Scan(context.Background(), root, 2)
	require.NoError(t, err)

	require.Len(t, node.Children, 11)
	assert.True(t, node.Children[0].IsFolder)
	assert.Equal(t, []string{"kept.md"}, childNames(node.Children[0]))
}

func TestScanUnreadableDirectoryHasNoChildren(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.md"), "")
	writeFile(t, filepath.Join(root, "open.md"), "")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	node, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"locked", "open.md"}, childNames(node))
	assert.Empty(t, node.Children[0].Children)
}

func TestScanRespectsGitIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n*.txt\n")
	writeFile(t, filepath.Join(root, "build", "out.md"), "")
	writeFile(t, filepath.Join(root, "keep.md"), "")
	writeFile(t, filepath.Join(root, "scratch.txt"), "")

	plain, err := NewScanner(nil, Options{}).Scan(context.Background(), root, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "keep.md", "scratch.txt"}, childNames(plain))

	filtered, err := NewScanner(nil, Options{RespectGitIgnore: true}).Scan(context.Background(), root, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, childNames(filtered))
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	node, err := NewScanner(nil, Options{}).Scan(ctx, root, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, node)
	assert.Empty(t, node.Children)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewScanner(nil, Options{}).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), 2)
	assert.Error(t, err)

	assert.Empty(t, LoadFolderTree(context.Background(), NewScanner(nil, Options{}), filepath.Join(t.TempDir(), "nope")))
}

func TestDocumentsFlattensTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guide", "setup.md"), "")
	writeFile(t, filepath.Join(root, "readme.md"), "")

	trees := LoadFolderTree(context.Background(), NewScanner(nil, Options{}), root)
	require.Len(t, trees, 1)

	docs := trees[0].Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "setup.md", docs[0].Name)
	assert.Equal(t, "readme.md", docs[1].Name)
	assert.Equal(t, 2, trees[0].CountFiles())
}
