// Package search keeps a sqlite full-text index of the documents cached on
// projects.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-markview/pkg/frontmatter"
	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/outline"
)

const defaultLimit = 50

// Document is one indexed markdown file
type Document struct {
	Path       string
	ProjectID  string
	Title      string
	Headings   string
	Content    string
	ModifiedAt time.Time
}

// Result is a search hit
type Result struct {
	Path       string
	ProjectID  string
	Title      string
	Snippet    string
	ModifiedAt time.Time
}

// Index manages the search index
type Index struct {
	db     *sql.DB
	useFTS bool
}

// NewIndex opens or creates the index at dbPath
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return idx, nil
}

func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	metaSchema := `
	CREATE TABLE IF NOT EXISTS project_documents (
		project TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT,
		headings TEXT,
		content TEXT,
		modified_at TIMESTAMP,
		PRIMARY KEY (project, path)
	);

	CREATE INDEX IF NOT EXISTS idx_project_documents_path ON project_documents(path);
	`
	if _, err := idx.db.Exec(metaSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS project_documents_fts USING fts5(
			path UNINDEXED,
			project UNINDEXED,
			title,
			headings,
			content,
			tokenize = 'porter unicode61'
		);
		`
		if _, err := idx.db.Exec(ftsSchema); err != nil {
			idx.useFTS = false
		}
	}

	return nil
}

func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_probe USING fts5(content)")
	if err != nil {
		return false
	}
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_probe")
	return true
}

// UsesFTS reports whether the sqlite build supports FTS5
func (idx *Index) UsesFTS() bool {
	return idx.useFTS
}

// NewDocument builds an index entry from a file's content. The title comes from
// frontmatter, then the first heading, then the file name.
func NewDocument(projectID string, entry models.FileEntry, content string) *Document {
	fm, body, err := frontmatter.Parse(content)
	if err != nil {
		body = content
	}

	title := ""
	if fm != nil {
		title = fm.Title
	}
	if title == "" {
		title = frontmatter.FirstHeading(body)
	}
	if title == "" {
		title = entry.Name
	}

	var headings []string
	for _, node := range models.Flatten(outline.Extract(body)) {
		headings = append(headings, node.Title)
	}

	return &Document{
		Path:       entry.Path,
		ProjectID:  projectID,
		Title:      title,
		Headings:   strings.Join(headings, "\n"),
		Content:    body,
		ModifiedAt: entry.ModifiedAt,
	}
}

// IndexDocument indexes or reindexes a document
func (idx *Index) IndexDocument(doc *Document) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.deleteWhere(tx, "project = ? AND path = ?", doc.ProjectID, doc.Path); err != nil {
		return err
	}

	if idx.useFTS {
		_, err = tx.Exec(`
			INSERT INTO project_documents_fts (path, project, title, headings, content)
			VALUES (?, ?, ?, ?, ?)
		`, doc.Path, doc.ProjectID, doc.Title, doc.Headings, doc.Content)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO project_documents (path, project, title, headings, content, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.Path, doc.ProjectID, doc.Title, doc.Headings, doc.Content, doc.ModifiedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// IndexProject replaces every indexed document of a project with the files
// currently cached on it. Files that cannot be read are skipped.
func (idx *Index) IndexProject(ctx context.Context, project *models.Project) (int, error) {
	if err := idx.RemoveProject(project.ID); err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range project.Files {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		content, err := os.ReadFile(entry.Path)
		if err != nil {
			continue
		}
		if err := idx.IndexDocument(NewDocument(project.ID, entry, string(content))); err != nil {
			return count, fmt.Errorf("index %s: %w", entry.Path, err)
		}
		count++
	}
	return count, nil
}

// Options for searching
type Options struct {
	ProjectID string
	Limit     int
}

// Search performs a full-text search
func (idx *Index) Search(query string, opts *Options) ([]*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if strings.TrimSpace(query) == "" {
		return []*Result{}, nil
	}

	if idx.useFTS {
		return idx.searchWithFTS(query, opts)
	}
	return idx.searchWithoutFTS(query, opts)
}

func (idx *Index) searchWithFTS(query string, opts *Options) ([]*Result, error) {
	conditions := []string{"project_documents_fts MATCH ?"}
	args := []any{ftsQuery(query)}

	if opts.ProjectID != "" {
		conditions = append(conditions, "d.project = ?")
		args = append(args, opts.ProjectID)
	}

	searchQuery := fmt.Sprintf(`
		SELECT
			d.path, d.project, d.title, d.modified_at,
			snippet(project_documents_fts, 4, '[', ']', '...', 16) AS snippet
		FROM project_documents_fts f
		JOIN project_documents d ON f.project = d.project AND f.path = d.path
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*Result{}
	for rows.Next() {
		r := &Result{}
		if err := rows.Scan(&r.Path, &r.ProjectID, &r.Title, &r.ModifiedAt, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (idx *Index) searchWithoutFTS(query string, opts *Options) ([]*Result, error) {
	pattern := "%" + strings.Join(strings.Fields(query), "%") + "%"
	conditions := []string{"(title LIKE ? OR headings LIKE ? OR content LIKE ?)"}
	args := []any{pattern, pattern, pattern}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project = ?")
		args = append(args, opts.ProjectID)
	}

	searchQuery := fmt.Sprintf(`
		SELECT path, project, title, modified_at, content
		FROM project_documents
		WHERE %s
		ORDER BY modified_at DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*Result{}
	for rows.Next() {
		r := &Result{}
		var content string
		if err := rows.Scan(&r.Path, &r.ProjectID, &r.Title, &r.ModifiedAt, &content); err != nil {
			return nil, err
		}
		r.Snippet = likeSnippet(content, strings.Fields(query)[0])
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuery quotes each term so user input is never parsed as FTS syntax
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// likeSnippet returns the text around the first case-insensitive match of
// term. It works on runes so the cut never splits a character.
func likeSnippet(content, term string) string {
	const radius = 40
	runes := []rune(content)

	at := indexFold(runes, []rune(term))
	if at < 0 {
		if len(runes) > 2*radius {
			return string(runes[:2*radius]) + "..."
		}
		return content
	}

	start := max(0, at-radius)
	end := min(len(runes), at+len([]rune(term))+radius)
	snippet := strings.ReplaceAll(string(runes[start:end]), "\n", " ")
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalFoldRunes(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func equalFoldRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] && !strings.EqualFold(string(a[i]), string(b[i])) {
			return false
		}
	}
	return true
}

// RemoveDocument removes a document from every project that indexed it
func (idx *Index) RemoveDocument(path string) error {
	return idx.removeWhere("path = ?", path)
}

// RemoveProject removes every document indexed for a project. Documents shared
// with other projects stay indexed for them.
func (idx *Index) RemoveProject(projectID string) error {
	return idx.removeWhere("project = ?", projectID)
}

func (idx *Index) removeWhere(where string, args ...any) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.deleteWhere(tx, where, args...); err != nil {
		return err
	}
	return tx.Commit()
}

func (idx *Index) deleteWhere(tx *sql.Tx, where string, args ...any) error {
	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM project_documents_fts WHERE "+where, args...); err != nil {
			return err
		}
	}
	_, err := tx.Exec("DELETE FROM project_documents WHERE "+where, args...)
	return err
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
