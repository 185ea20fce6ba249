package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewProjectCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
		Long: `Manage projects. A project names a workspace folder and caches the
markdown documents found in it. One project can be active at a time.

Examples:
  mkv project create docs ~/work/docs   # Register a folder
  mkv project activate docs             # Make it the active project
  mkv project list                      # Show every project`,
	}

	cmd.AddCommand(newProjectCreateCmd(svc))
	cmd.AddCommand(newProjectListCmd(svc))
	cmd.AddCommand(newProjectShowCmd(svc))
	cmd.AddCommand(newProjectActivateCmd(svc))
	cmd.AddCommand(newProjectDeactivateCmd(svc))
	cmd.AddCommand(newProjectRefreshCmd(svc))
	cmd.AddCommand(newProjectRenameCmd(svc))
	cmd.AddCommand(newProjectDescribeCmd(svc))
	cmd.AddCommand(newProjectDeleteCmd(svc))

	return cmd
}

func newProjectCreateCmd(svc **service.Service) *cobra.Command {
	var (
		description string
		activate    bool
	)

	cmd := &cobra.Command{
		Use:   "create <name> <folder>",
		Short: "Register a workspace folder as a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			p, err := s.Projects.Create(cmd.Context(), args[0], args[1], description)
			if err != nil {
				return err
			}
			if activate {
				if err := s.Projects.SetActive(p.ID); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s) with %d documents\n", p.Name, shortID(p.ID), len(p.Files))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().BoolVarP(&activate, "activate", "a", false, "Make the new project active")

	return cmd
}

func newProjectListCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := (*svc).Projects.List()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return outputJSON(out, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects. Create one with 'mkv project create <name> <folder>'.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, " \tID\tNAME\tDOCS\tLAST OPENED\tFOLDER")
			for _, p := range projects {
				marker := " "
				if p.IsActive {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					marker, shortID(p.ID), truncateString(p.Name, 30), len(p.Files), formatTime(p.LastOpenedAt), p.FolderPath)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newProjectShowCmd(svc **service.Service) *cobra.Command {
	var (
		jsonOutput bool
		showFiles  bool
	)

	cmd := &cobra.Command{
		Use:   "show [project]",
		Short: "Show a project (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := (*svc).ResolveProject(optionalArg(args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if jsonOutput {
				return outputJSON(out, p)
			}
			printProject(cmd, p)
			if showFiles {
				for _, f := range p.Files {
					fmt.Fprintf(out, "  %s\n", f.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&showFiles, "files", "f", false, "List cached documents")

	return cmd
}

func printProject(cmd *cobra.Command, p *models.Project) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	fmt.Fprintf(out, "ID:          %s\n", p.ID)
	fmt.Fprintf(out, "Folder:      %s\n", p.FolderPath)
	if p.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(out, "Active:      %t\n", p.IsActive)
	fmt.Fprintf(out, "Created:     %s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(out, "Last opened: %s\n", formatTime(p.LastOpenedAt))
	fmt.Fprintf(out, "Documents:   %d\n", len(p.Files))
}

func newProjectActivateCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "activate <project>",
		Aliases: []string{"use"},
		Short:   "Make a project the active one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.ResolveProject(args[0])
			if err != nil {
				return err
			}
			if err := s.Projects.SetActive(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active project: %s\n", p.Name)
			return nil
		},
	}
}

func newProjectDeactivateCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Clear the active project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*svc).Projects.SetActive(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No active project")
			return nil
		},
	}
}

func newProjectRefreshCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [project]",
		Short: "Rescan a project's folder (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.ResolveProject(optionalArg(args))
			if err != nil {
				return err
			}

			err = s.Projects.RefreshFiles(cmd.Context(), p)
			if errors.Is(err, service.ErrFolderMissing) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s no longer exists, keeping %d cached documents\n", p.FolderPath, len(p.Files))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %s: %d documents\n", p.Name, len(p.Files))
			return nil
		},
	}
}

func newProjectRenameCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <new-name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.ResolveProject(args[0])
			if err != nil {
				return err
			}
			return s.Projects.Rename(p.ID, args[1])
		},
	}
}

func newProjectDescribeCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <project> <description>",
		Short: "Set a project's description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.ResolveProject(args[0])
			if err != nil {
				return err
			}
			return s.Projects.SetDescription(p.ID, args[1])
		},
	}
}

func newProjectDeleteCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project (the folder is left alone)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.ResolveProject(args[0])
			if err != nil {
				return err
			}
			if err := s.Projects.Delete(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Name)
			return nil
		},
	}
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
