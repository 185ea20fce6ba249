package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/search"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		projectRef  string
		allProjects bool
		reindex     bool
		searchLimit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search documents",
		Long: `Search the documents of the active project, or of every project.
The index is rebuilt from the project folders with --reindex.

Examples:
  mkv search "deployment"            # Active project
  mkv search "api" --all             # Every project
  mkv search "setup" -p docs -r      # Reindex a project, then search`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			index, err := s.OpenIndex()
			if err != nil {
				return err
			}
			defer index.Close()

			opts := &search.Options{Limit: searchLimit}
			if !allProjects {
				p, err := s.ResolveProject(projectRef)
				if err != nil {
					return err
				}
				opts.ProjectID = p.ID
				if reindex {
					if _, err := s.ReindexProject(ctx, index, p); err != nil {
						return err
					}
				}
			} else if reindex {
				for _, p := range s.Projects.List() {
					if _, err := s.ReindexProject(ctx, index, p); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %v\n", p.Name, err)
					}
				}
			}

			query := strings.Join(args, " ")
			results, err := index.Search(query, opts)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}

			names := map[string]string{}
			for _, p := range s.Projects.List() {
				names[p.ID] = p.Name
			}

			fmt.Fprintf(out, "Found %d results:\n\n", len(results))
			for i, r := range results {
				fmt.Fprintf(out, "%d. %s\n", i+1, r.Title)
				fmt.Fprintf(out, "   %s\n", r.Path)
				if name := names[r.ProjectID]; name != "" && allProjects {
					fmt.Fprintf(out, "   Project: %s\n", name)
				}
				if r.Snippet != "" {
					fmt.Fprintf(out, "   %s\n", strings.TrimSpace(r.Snippet))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project to search (defaults to the active one)")
	cmd.Flags().BoolVarP(&allProjects, "all", "a", false, "Search every project")
	cmd.Flags().BoolVarP(&reindex, "reindex", "r", false, "Rebuild the index before searching")
	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")

	return cmd
}
