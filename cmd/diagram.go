package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/plantuml"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewDiagramCmd(svc **service.Service) *cobra.Command {
	var (
		payloadOnly bool
		htmlOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "diagram [file]",
		Short: "Encode PlantUML source into a server image URL",
		Long: `Read PlantUML source from a file, or stdin when no file is given, and print
the image URL. @startuml/@enduml are added when missing.

Examples:
  mkv diagram seq.puml
  echo "Bob -> Alice: hi" | mkv diagram
  mkv diagram seq.puml --html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			var (
				source []byte
				err    error
			)
			if len(args) == 1 && args[0] != "-" {
				source, err = os.ReadFile(args[0])
			} else {
				source, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read diagram source: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case payloadOnly:
				payload, err := plantuml.EncodeSource(string(source))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, payload)
			case htmlOutput:
				fmt.Fprintln(out, s.Renderer.ProcessDiagramBlock(string(source)))
			default:
				url, err := plantuml.NewEncoder(s.Config.PlantUMLServer).ImageURL(string(source))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&payloadOnly, "payload", false, "Print only the encoded payload")
	cmd.Flags().BoolVar(&htmlOutput, "html", false, "Print an HTML image tag")

	return cmd
}
