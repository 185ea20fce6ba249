package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantFM   *Frontmatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "full frontmatter",
			content: `---
title: Release Notes
description: What changed
category: docs
tags: [release, v2]
---
# Release Notes
`,
			wantFM: &Frontmatter{
				Title:       "Release Notes",
				Description: "What changed",
				Category:    "docs",
				Aliases:     []string{},
				Tags:        []string{"release", "v2"},
			},
			wantBody: "# Release Notes\n",
		},
		{
			name:     "no frontmatter",
			content:  "# Just a heading\n",
			wantFM:   nil,
			wantBody: "# Just a heading\n",
		},
		{
			name:     "windows line endings",
			content:  "---\r\ntitle: CRLF\r\n---\r\nbody",
			wantFM:   &Frontmatter{Title: "CRLF", Aliases: []string{}, Tags: []string{}},
			wantBody: "body",
		},
		{
			name:     "invalid yaml",
			content:  "---\ntitle: [oops\n---\nbody",
			wantFM:   nil,
			wantBody: "---\ntitle: [oops\n---\nbody",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := Parse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFM, fm)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "# Body\n", Strip("---\ntitle: x\n---\n# Body\n"))
	assert.Equal(t, "# Body\n", Strip("# Body\n"))

	malformed := "---\ntitle: [oops\n---\n# Body\n"
	assert.Equal(t, malformed, Strip(malformed))
}

func TestFirstHeading(t *testing.T) {
	assert.Equal(t, "Intro", FirstHeading("text\n## Sub\n# Intro\n# Later"))
	assert.Equal(t, "", FirstHeading("## Only second level"))
}
