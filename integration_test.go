//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/cmd"
	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/plantuml"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func run(t *testing.T, c *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	if err := c.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%s %v: %v\n%s", c.Name(), args, err, out.String())
	}
	return out.String()
}

func TestIntegration(t *testing.T) {
	tmpDir := t.TempDir()

	docs := filepath.Join(tmpDir, "docs")
	if err := os.MkdirAll(filepath.Join(docs, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "a.md"), []byte("# A\n## A.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, ".git", "hidden.md"), []byte("# hidden\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := service.New(&service.Config{
		DataDir:  filepath.Join(tmpDir, "data"),
		MaxDepth: 2,
		Theme:    models.ThemeLight,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	t.Run("ScanSkipsHiddenFolders", func(t *testing.T) {
		root, err := s.Scanner.Scan(context.Background(), docs, 2)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if len(root.Children) != 1 || root.Children[0].Name != "a.md" {
			t.Fatalf("expected only a.md, got %+v", root.Children)
		}
	})

	t.Run("OutlineOfRenderedDocument", func(t *testing.T) {
		page, err := s.RenderFile(filepath.Join(docs, "a.md"))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if len(page.Outline) != 1 || page.Outline[0].Title != "A" || page.Outline[0].Level != 1 {
			t.Fatalf("unexpected outline roots: %+v", page.Outline)
		}
		child := page.Outline[0].Children
		if len(child) != 1 || child[0].Title != "A.1" || child[0].Level != 2 || len(child[0].Children) != 0 {
			t.Fatalf("unexpected outline children: %+v", child)
		}
	})

	t.Run("EncodeIsDeterministic", func(t *testing.T) {
		first, err := plantuml.EncodeSource("Bob -> Alice: hi")
		if err != nil {
			t.Fatal(err)
		}
		second, _ := plantuml.EncodeSource("Bob -> Alice: hi")
		if first == "" || first != second {
			t.Fatalf("encodings differ: %q vs %q", first, second)
		}
		for _, r := range first {
			if !strings.ContainsRune(plantuml.Alphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, first)
			}
		}
	})

	t.Run("ProjectCommands", func(t *testing.T) {
		out := run(t, cmd.NewProjectCmd(&s), "create", "Docs", docs, "--activate")
		if !strings.Contains(out, "with 1 documents") {
			t.Errorf("unexpected create output: %s", out)
		}

		out = run(t, cmd.NewProjectCmd(&s), "list")
		if !strings.Contains(out, "Docs") || !strings.Contains(out, "*") {
			t.Errorf("active project missing from list: %s", out)
		}

		run(t, cmd.NewProjectCmd(&s), "deactivate")
		if s.Projects.Active() != nil {
			t.Error("expected no active project")
		}
	})

	t.Run("FavoriteCommands", func(t *testing.T) {
		out := run(t, cmd.NewFavoriteCmd(&s), "add", filepath.Join(docs, "a.md"), "-c", "work")
		if !strings.Contains(out, "A (a.md)") {
			t.Errorf("expected title from heading: %s", out)
		}

		out = run(t, cmd.NewFavoriteCmd(&s), "categories")
		if strings.TrimSpace(out) != "work" {
			t.Errorf("unexpected categories: %q", out)
		}

		out = run(t, cmd.NewFavoriteCmd(&s), "open", filepath.Join(docs, "a.md"))
		if strings.TrimSpace(out) != filepath.Join(docs, "a.md") {
			t.Errorf("unexpected open output: %q", out)
		}
		if got := s.Favorites.List()[0].AccessCount; got != 1 {
			t.Errorf("expected one access, got %d", got)
		}
	})

	t.Run("RenderCommand", func(t *testing.T) {
		target := filepath.Join(tmpDir, "a.html")
		run(t, cmd.NewRenderCmd(&s), filepath.Join(docs, "a.md"), "-o", target)

		html, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(html), `<h1 id="a">A</h1>`) {
			t.Errorf("rendered page missing heading")
		}
	})
}
