package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/frontmatter"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewViewCmd(svc **service.Service) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Preview a markdown document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			style := "light"
			if s.Config.Theme.IsDark() {
				style = "dark"
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(width),
				glamour.WithEmoji(),
			)
			if err != nil {
				return fmt.Errorf("create terminal renderer: %w", err)
			}

			out, err := r.Render(frontmatter.Strip(string(content)))
			if err != nil {
				return fmt.Errorf("render document: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 100, "Wrap width in columns")

	return cmd
}
