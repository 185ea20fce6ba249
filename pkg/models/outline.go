package models

// OutlineNode is a single heading in a document outline.
// Children always carry a strictly greater level than their parent.
type OutlineNode struct {
	Title    string         `json:"title"`
	Level    int            `json:"level"`
	Children []*OutlineNode `json:"children"`
}

// Flatten returns the headings of a forest in document order
func Flatten(forest []*OutlineNode) []*OutlineNode {
	var out []*OutlineNode
	for _, node := range forest {
		out = append(out, node)
		out = append(out, Flatten(node.Children)...)
	}
	return out
}
