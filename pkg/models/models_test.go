package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{"", ThemeLight, false},
		{"light", ThemeLight, false},
		{" Dark ", ThemeDark, false},
		{"solarized", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTheme(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, ThemeDark.IsDark())
	assert.False(t, ThemeLight.IsDark())
}

func TestDocumentsFlattensDepthFirst(t *testing.T) {
	root := &DocumentNode{
		Name:     "root",
		IsFolder: true,
		Children: []*DocumentNode{
			{Name: "guide", IsFolder: true, Children: []*DocumentNode{
				{Name: "setup.md", Path: "/r/guide/setup.md"},
			}},
			{Name: "empty", IsFolder: true},
			{Name: "readme.md", Path: "/r/readme.md"},
		},
	}

	docs := root.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "setup.md", docs[0].Name)
	assert.Equal(t, "/r/readme.md", docs[1].Path)
	assert.Equal(t, 2, root.CountFiles())
}

func TestFlatten(t *testing.T) {
	forest := []*OutlineNode{
		{Title: "A", Level: 1, Children: []*OutlineNode{
			{Title: "A.1", Level: 2, Children: []*OutlineNode{}},
		}},
		{Title: "B", Level: 1, Children: []*OutlineNode{}},
	}

	var titles []string
	for _, n := range Flatten(forest) {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"A", "A.1", "B"}, titles)
}

func TestFavorite(t *testing.T) {
	f := NewFavorite("Guide", "/docs/guide.md", "", "work")
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, 0, f.AccessCount)
	assert.Equal(t, "Guide (guide.md)", f.DisplayText())

	before := f.LastAccessedAt
	time.Sleep(time.Millisecond)
	f.MarkAccessed()
	assert.Equal(t, 1, f.AccessCount)
	assert.True(t, f.LastAccessedAt.After(before))
}

func TestNewProject(t *testing.T) {
	a := NewProject("Docs", "/docs", "")
	b := NewProject("Docs", "/docs", "")

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.IsActive)
	assert.NotNil(t, a.Files)
	assert.Empty(t, a.Files)
}
