package service

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-markview/pkg/frontmatter"
)

// DocumentTitle picks a display title for a document: its frontmatter title,
// then its first level-one heading, then its file name in title case
func DocumentTitle(path string) string {
	if content, err := os.ReadFile(path); err == nil {
		fm, body, err := frontmatter.Parse(string(content))
		if err == nil && fm != nil && strings.TrimSpace(fm.Title) != "" {
			return strings.TrimSpace(fm.Title)
		}
		if heading := frontmatter.FirstHeading(body); heading != "" {
			return heading
		}
	}
	return titleFromFilename(path)
}

// titleFromFilename turns "release-notes_v2.md" into "Release Notes V2"
func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)

	words := strings.Fields(stem)
	caser := cases.Title(language.English)
	for i, word := range words {
		words[i] = caser.String(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}
