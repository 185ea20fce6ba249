package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/cmd"
	"github.com/mattsolo1/grove-markview/cmd/config"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := &cobra.Command{
		Use:          "mkv",
		Short:        "Browse, outline and render markdown workspaces",
		SilenceUsage: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// This runs once before any subcommand
		var err error
		svc, err = config.InitService()
		return err
	}

	rootCmd.AddCommand(cmd.NewProjectCmd(&svc))
	rootCmd.AddCommand(cmd.NewFavoriteCmd(&svc))
	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewOutlineCmd(&svc))
	rootCmd.AddCommand(cmd.NewRenderCmd(&svc))
	rootCmd.AddCommand(cmd.NewViewCmd(&svc))
	rootCmd.AddCommand(cmd.NewDiagramCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
