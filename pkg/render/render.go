// Package render turns markdown documents into themed HTML pages, replacing
// PlantUML code blocks with images served by a PlantUML server.
package render

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-markview/pkg/frontmatter"
	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/outline"
	"github.com/mattsolo1/grove-markview/pkg/plantuml"
)

// diagramBlockPattern matches fenced blocks tagged with a PlantUML alias
var diagramBlockPattern = regexp.MustCompile("(?i)```(?:plantuml|puml|uml)\\s*\\n([\\s\\S]*?)\\n```")

// Options control the page template
type Options struct {
	Theme    models.Theme
	FontSize int
}

// Page is a rendered document
type Page struct {
	HTML    string
	Outline []*models.OutlineNode
}

// DiagramEncoder turns diagram source into an image URL
type DiagramEncoder interface {
	ImageURL(source string) (string, error)
}

// Renderer orchestrates diagram substitution, markdown conversion and theming
type Renderer struct {
	markup  MarkupRenderer
	diagram DiagramEncoder
	logger  logrus.FieldLogger
}

// New creates a renderer. Nil collaborators fall back to goldmark, the public
// PlantUML server and a discard logger.
func New(markup MarkupRenderer, diagram DiagramEncoder, logger logrus.FieldLogger) *Renderer {
	if markup == nil {
		markup = NewGoldmarkRenderer()
	}
	if diagram == nil {
		diagram = plantuml.NewEncoder("")
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Renderer{markup: markup, diagram: diagram, logger: logger}
}

// Render converts a document into a full HTML page and its outline
func (r *Renderer) Render(document string, opts Options) (*Page, error) {
	body := frontmatter.Strip(document)

	fragment, err := r.markup.RenderHTML(r.SubstituteDiagrams(body))
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	return &Page{
		HTML:    wrapPage(fragment, opts.Theme, opts.FontSize),
		Outline: outline.Extract(body),
	}, nil
}

// SubstituteDiagrams replaces each PlantUML block with an image tag. Blocks
// that are empty or fail to encode are left as they were.
func (r *Renderer) SubstituteDiagrams(markdown string) string {
	matches := diagramBlockPattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(markdown[last:m[0]])
		last = m[1]

		block := markdown[m[0]:m[1]]
		source := strings.TrimSpace(markdown[m[2]:m[3]])
		if source == "" {
			sb.WriteString(block)
			continue
		}

		img, err := r.imageTag(source)
		if err != nil {
			r.logger.WithError(err).Warn("could not encode diagram, leaving code block")
			sb.WriteString(block)
			continue
		}
		sb.WriteString("\n\n" + img + "\n\n")
	}
	sb.WriteString(markdown[last:])

	return sb.String()
}

// ProcessDiagramBlock returns an image tag for source, or an escaped code block
// when it cannot be encoded
func (r *Renderer) ProcessDiagramBlock(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	img, err := r.imageTag(source)
	if err != nil {
		r.logger.WithError(err).Warn("could not encode diagram")
		return fmt.Sprintf(`<pre><code class="language-plantuml">%s</code></pre>`, html.EscapeString(source))
	}
	return img
}

func (r *Renderer) imageTag(source string) (string, error) {
	url, err := r.diagram.ImageURL(source)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<img src="%s" alt="PlantUML Diagram" style="max-width: 100%%; height: auto; border: 1px solid #ddd; border-radius: 4px; padding: 8px; margin: 8px 0; background: white;" />`,
		html.EscapeString(url)), nil
}
