package render

import (
	"strconv"
	"strings"

	"github.com/mattsolo1/grove-markview/pkg/models"
)

type palette struct {
	stylesheet string
	text       string
	background string
	border     string
	muted      string
	codeBg     string
	codeText   string
	link       string
}

var (
	lightPalette = palette{
		stylesheet: "github",
		text:       "#1f2328",
		background: "#ffffff",
		border:     "#d0d7de",
		muted:      "#656d76",
		codeBg:     "#f6f8fa",
		codeText:   "#1f2328",
		link:       "#0969da",
	}
	darkPalette = palette{
		stylesheet: "github-dark",
		text:       "#e6edf3",
		background: "#0d1117",
		border:     "#30363d",
		muted:      "#7d8590",
		codeBg:     "#161b22",
		codeText:   "#f0f6fc",
		link:       "#58a6ff",
	}
)

func paletteFor(theme models.Theme) palette {
	if theme.IsDark() {
		return darkPalette
	}
	return lightPalette
}

// wrapPage substitutes the fragment and theme values into the page template
func wrapPage(fragment string, theme models.Theme, fontSize int) string {
	if fontSize <= 0 {
		fontSize = models.DefaultFontSize
	}
	p := paletteFor(theme)

	r := strings.NewReplacer(
		"{{stylesheet}}", p.stylesheet,
		"{{fontSize}}", strconv.Itoa(fontSize),
		"{{text}}", p.text,
		"{{background}}", p.background,
		"{{border}}", p.border,
		"{{muted}}", p.muted,
		"{{codeBg}}", p.codeBg,
		"{{codeText}}", p.codeText,
		"{{link}}", p.link,
	)
	head := r.Replace(pageHead)

	return head + fragment + pageTail
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Markdown Preview</title>
    <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/{{stylesheet}}.min.css">
    <script src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"></script>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Noto Sans', Helvetica, Arial, sans-serif;
            font-size: {{fontSize}}px;
            line-height: 1.6;
            color: {{text}};
            background-color: {{background}};
            margin: 0;
            padding: 20px;
        }
        h1, h2, h3, h4, h5, h6 {
            margin-top: 24px;
            margin-bottom: 16px;
            font-weight: 600;
            line-height: 1.25;
            border-bottom: 1px solid {{border}};
            padding-bottom: 0.3em;
        }
        h1 { font-size: 2em; }
        h2 { font-size: 1.5em; }
        h3 { font-size: 1.25em; }
        h4 { font-size: 1em; }
        h5 { font-size: 0.875em; }
        h6 { font-size: 0.85em; color: {{muted}}; }
        p { margin-bottom: 16px; }
        code {
            background-color: {{codeBg}};
            color: {{codeText}};
            padding: 0.2em 0.4em;
            border-radius: 6px;
            font-size: 85%;
            font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
        }
        pre {
            background-color: {{codeBg}};
            border-radius: 6px;
            padding: 16px;
            overflow: auto;
            margin-bottom: 16px;
        }
        pre code {
            background-color: transparent;
            padding: 0;
            border-radius: 0;
            font-size: inherit;
        }
        blockquote {
            margin: 0 0 16px 0;
            padding: 0 1em;
            color: {{muted}};
            border-left: 0.25em solid {{border}};
        }
        table {
            border-collapse: collapse;
            border-spacing: 0;
            margin-bottom: 16px;
            width: 100%;
        }
        table th, table td {
            padding: 6px 13px;
            border: 1px solid {{border}};
        }
        table th {
            background-color: {{codeBg}};
            font-weight: 600;
        }
        ul, ol { margin-bottom: 16px; }
        img { max-width: 100%; height: auto; }
        a { color: {{link}}; text-decoration: none; }
        a:hover { text-decoration: underline; }
        hr {
            height: 0.25em;
            padding: 0;
            margin: 24px 0;
            background-color: {{border}};
            border: 0;
        }
    </style>
</head>
<body>
`

const pageTail = `
    <script>hljs.highlightAll();</script>
</body>
</html>
`
