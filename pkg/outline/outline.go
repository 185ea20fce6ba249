// Package outline builds a heading tree from markdown text.
package outline

import (
	"regexp"
	"strings"

	"github.com/mattsolo1/grove-markview/pkg/models"
)

// headingPattern matches ATX headings: 1-6 '#' markers, whitespace, then text.
// Fenced code blocks are not tracked, so '#' lines inside them are matched too.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Extract returns the root-level headings of content, each with its nested children
func Extract(content string) []*models.OutlineNode {
	roots := []*models.OutlineNode{}
	var stack []*models.OutlineNode

	for _, line := range strings.Split(content, "\n") {
		level, title, ok := parseHeading(line)
		if !ok {
			continue
		}

		node := &models.OutlineNode{
			Title:    title,
			Level:    level,
			Children: []*models.OutlineNode{},
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}

		stack = append(stack, node)
	}

	return roots
}

// parseHeading reports the level and trimmed title of a heading line
func parseHeading(line string) (int, string, bool) {
	line = strings.TrimRight(line, "\r")
	matches := headingPattern.FindStringSubmatch(line)
	if matches == nil {
		return 0, "", false
	}

	title := strings.TrimSpace(matches[2])
	if title == "" {
		return 0, "", false
	}

	return len(matches[1]), title, true
}
