// Package tree discovers markdown documents beneath a workspace folder.
package tree

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-markview/pkg/models"
)

const (
	// DefaultMaxDepth is how many folder levels below the root are enumerated
	DefaultMaxDepth = 2

	// MaxFoldersPerDir caps the subfolders kept in any one directory
	MaxFoldersPerDir = 100

	// MaxFilesPerDir caps the documents kept in any one directory
	MaxFilesPerDir = 500
)

// DocumentExtensions are the file extensions recognised as documents
var DocumentExtensions = []string{".md", ".markdown", ".txt"}

// IsDocument reports whether path has a document extension (case-insensitive)
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range DocumentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Options tune a Scanner
type Options struct {
	MaxFolders int
	MaxFiles   int

	// RespectGitIgnore additionally drops entries matched by the root .gitignore
	RespectGitIgnore bool
}

// Scanner walks a folder under a bounded resource policy
type Scanner struct {
	opts   Options
	logger logrus.FieldLogger
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(logger logrus.FieldLogger, opts Options) *Scanner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.MaxFolders <= 0 {
		opts.MaxFolders = MaxFoldersPerDir
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = MaxFilesPerDir
	}
	return &Scanner{opts: opts, logger: logger}
}

type scan struct {
	*Scanner
	root   string
	ignore gitignore.GitIgnore
}

// Scan returns the folder tree rooted at root. Folders at maxDepth are kept as
// leaves without being enumerated. Unreadable directories become childless
// folders. The context is checked before each folder visit; on cancellation the
// partial tree is returned together with the context error.
func (s *Scanner) Scan(ctx context.Context, root string, maxDepth int) (*models.DocumentNode, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	run := &scan{Scanner: s, root: abs}
	if s.opts.RespectGitIgnore {
		run.ignore = loadGitIgnore(abs)
	}

	node := folderNode(abs, info)
	err = run.visit(ctx, node, 0, maxDepth)
	return node, err
}

func (r *scan) visit(ctx context.Context, node *models.DocumentNode, depth, maxDepth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth >= maxDepth {
		return nil
	}

	entries, err := os.ReadDir(node.Path)
	if err != nil {
		r.logger.WithError(err).WithField("path", node.Path).Debug("skipping unreadable directory")
		return nil
	}

	var folders, files []*models.DocumentNode
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(node.Path, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			r.logger.WithError(err).WithField("path", path).Debug("skipping entry")
			continue
		}
		if isHiddenOrSystem(info) || r.ignored(path, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if len(folders) >= r.opts.MaxFolders {
				continue
			}
			folders = append(folders, folderNode(path, info))
			continue
		}

		if !IsDocument(path) || len(files) >= r.opts.MaxFiles {
			continue
		}
		files = append(files, &models.DocumentNode{
			Name:       info.Name(),
			Path:       path,
			ModifiedAt: info.ModTime(),
		})
	}

	for _, folder := range folders {
		node.Children = append(node.Children, folder)
		if err := r.visit(ctx, folder, depth+1, maxDepth); err != nil {
			return err
		}
	}
	node.Children = append(node.Children, files...)

	return nil
}

func (r *scan) ignored(path string, isDir bool) bool {
	if r.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return false
	}
	match := r.ignore.Relative(filepath.ToSlash(rel), isDir)
	return match != nil && match.Ignore()
}

func folderNode(path string, info os.FileInfo) *models.DocumentNode {
	return &models.DocumentNode{
		Name:       filepath.Base(path),
		Path:       path,
		IsFolder:   true,
		ModifiedAt: info.ModTime(),
		Children:   []*models.DocumentNode{},
	}
}

func loadGitIgnore(root string) gitignore.GitIgnore {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore.New(bytes.NewReader(data), root, nil)
}

// LoadFolderTree scans root to DefaultMaxDepth and returns it as a one-element
// slice, or an empty slice when root is missing or unreadable
func LoadFolderTree(ctx context.Context, s *Scanner, root string) []*models.DocumentNode {
	node, err := s.Scan(ctx, root, DefaultMaxDepth)
	if err != nil || node == nil {
		return []*models.DocumentNode{}
	}
	return []*models.DocumentNode{node}
}
