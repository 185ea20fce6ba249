package models

import "time"

// DocumentNode is a file or folder discovered by a workspace scan.
// Nodes are built fresh on every scan and are not mutated afterwards.
type DocumentNode struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	IsFolder   bool            `json:"isFolder"`
	ModifiedAt time.Time       `json:"modifiedAt"`
	Children   []*DocumentNode `json:"children,omitempty"`
}

// FileEntry is the persisted form of a document node cached on a project.
type FileEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Documents flattens the tree into its non-folder nodes, depth first.
func (n *DocumentNode) Documents() []FileEntry {
	var out []FileEntry
	var walk func(*DocumentNode)
	walk = func(node *DocumentNode) {
		if node == nil {
			return
		}
		if !node.IsFolder {
			out = append(out, FileEntry{Name: node.Name, Path: node.Path, ModifiedAt: node.ModifiedAt})
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// CountFiles returns the number of documents beneath the node
func (n *DocumentNode) CountFiles() int {
	return len(n.Documents())
}
