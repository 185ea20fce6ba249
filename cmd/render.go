package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewRenderCmd(svc **service.Service) *cobra.Command {
	var (
		output   string
		fontSize int
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a markdown document to a standalone HTML page",
		Long: `Render a markdown document to HTML. PlantUML blocks (plantuml, puml, uml)
become images served by the configured PlantUML server.

Examples:
  mkv render README.md                    # Write HTML to stdout
  mkv render README.md -o readme.html     # Write to a file
  mkv render notes.md --theme dark        # Dark palette`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if fontSize > 0 {
				s.Config.FontSize = fontSize
			}

			page, err := s.RenderFile(args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), page.HTML)
				return err
			}
			if err := os.WriteFile(output, []byte(page.HTML), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Body font size in pixels (defaults to font_size)")

	return cmd
}
