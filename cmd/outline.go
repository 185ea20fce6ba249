package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/frontmatter"
	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/outline"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewOutlineCmd(svc **service.Service) *cobra.Command {
	var (
		jsonOutput bool
		flat       bool
	)

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the heading outline of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			nodes := outline.Extract(frontmatter.Strip(string(content)))
			out := cmd.OutOrStdout()

			switch {
			case jsonOutput && flat:
				return outputJSON(out, flatHeadings(nodes))
			case jsonOutput:
				return outputJSON(out, nodes)
			case flat:
				for _, n := range models.Flatten(nodes) {
					fmt.Fprintf(out, "%s %s\n", strings.Repeat("#", n.Level), n.Title)
				}
			default:
				printOutline(out, nodes, 0)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&flat, "flat", false, "List headings in document order without nesting")

	return cmd
}

// flatHeading is one heading without its subtree
type flatHeading struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

func flatHeadings(nodes []*models.OutlineNode) []flatHeading {
	out := []flatHeading{}
	for _, n := range models.Flatten(nodes) {
		out = append(out, flatHeading{Title: n.Title, Level: n.Level})
	}
	return out
}

func printOutline(w io.Writer, nodes []*models.OutlineNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", depth), n.Title)
		printOutline(w, n.Children, depth+1)
	}
}
