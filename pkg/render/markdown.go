package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkupRenderer converts markdown text into an HTML fragment
type MarkupRenderer interface {
	RenderHTML(markdown string) (string, error)
}

// GoldmarkRenderer renders GitHub-flavoured markdown with goldmark. Raw HTML is
// passed through so substituted diagram images survive.
// The engine is built once and is safe to reuse across documents.
type GoldmarkRenderer struct {
	engine goldmark.Markdown
}

// NewGoldmarkRenderer builds the markdown pipeline
func NewGoldmarkRenderer() *GoldmarkRenderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			emoji.Emoji,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{engine: engine}
}

// RenderHTML satisfies MarkupRenderer
func (g *GoldmarkRenderer) RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown parse: %w", err)
	}
	return buf.String(), nil
}
