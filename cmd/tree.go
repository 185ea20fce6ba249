package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

var (
	folderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fileStyle   = lipgloss.NewStyle()
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var (
		depth      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "tree [folder|project]",
		Short: "Show the document tree of a folder or project",
		Long: `Scan a folder for markdown documents and print the tree. With no argument
the active project's folder is used.

Examples:
  mkv tree                # Active project
  mkv tree ~/work/docs    # Any folder
  mkv tree docs -d 4      # A project, scanned deeper`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			root, err := resolveFolder(s, optionalArg(args))
			if err != nil {
				return err
			}
			if depth <= 0 {
				depth = s.Config.MaxDepth
			}

			node, err := s.Scanner.Scan(cmd.Context(), root, depth)
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), node)
			}
			printTree(cmd.OutOrStdout(), node)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Maximum folder depth (defaults to max_depth)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// resolveFolder treats ref as a folder when it exists on disk, otherwise as a
// project reference
func resolveFolder(s *service.Service, ref string) (string, error) {
	if ref != "" {
		if info, err := os.Stat(ref); err == nil && info.IsDir() {
			return ref, nil
		}
	}
	p, err := s.ResolveProject(ref)
	if err != nil {
		return "", err
	}
	return p.FolderPath, nil
}

func printTree(w io.Writer, root *models.DocumentNode) {
	fmt.Fprintln(w, folderStyle.Render(root.Path))
	printChildren(w, root.Children, "")
	fmt.Fprintf(w, "\n%d documents\n", root.CountFiles())
}

func printChildren(w io.Writer, children []*models.DocumentNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		name := fileStyle.Render(child.Name)
		if child.IsFolder {
			name = folderStyle.Render(child.Name + "/")
		}
		fmt.Fprintln(w, branchStyle.Render(prefix+connector)+name)

		if child.IsFolder {
			printChildren(w, child.Children, prefix+indent)
		}
	}
}
