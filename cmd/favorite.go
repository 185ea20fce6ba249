package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/service"
)

func NewFavoriteCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorite",
		Aliases: []string{"fav"},
		Short:   "Manage favorite documents",
		Long: `Bookmark documents for quick access. Favorites are listed pinned first,
then by most recent access.

Examples:
  mkv fav add docs/guide.md                 # Title taken from the document
  mkv fav add notes.md -t "Notes" -c work   # Explicit title and category
  mkv fav list -c work                      # Favorites in one category`,
	}

	cmd.AddCommand(newFavoriteAddCmd(svc))
	cmd.AddCommand(newFavoriteListCmd(svc))
	cmd.AddCommand(newFavoriteOpenCmd(svc))
	cmd.AddCommand(newFavoritePinCmd(svc, true))
	cmd.AddCommand(newFavoritePinCmd(svc, false))
	cmd.AddCommand(newFavoriteCategoriesCmd(svc))
	cmd.AddCommand(newFavoriteRemoveCmd(svc))

	return cmd
}

func newFavoriteAddCmd(svc **service.Service) *cobra.Command {
	var (
		title       string
		description string
		category    string
		pin         bool
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a document to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = service.DocumentTitle(path)
			}

			f, err := s.Favorites.Add(title, path, description, category)
			if err != nil {
				return err
			}
			if pin {
				if err := s.Favorites.SetPinned(f.ID, true); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added favorite %s\n", f.DisplayText())
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title (defaults to the document's title)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().BoolVarP(&pin, "pin", "p", false, "Pin the favorite")

	return cmd
}

func newFavoriteListCmd(svc **service.Service) *cobra.Command {
	var (
		jsonOutput bool
		category   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()

			var favorites []*models.Favorite
			if category != "" {
				favorites = s.Favorites.ByCategory(category)
			} else {
				favorites = s.Favorites.List()
			}

			if jsonOutput {
				return outputJSON(out, favorites)
			}
			if len(favorites) == 0 {
				fmt.Fprintln(out, "No favorites found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, " \tID\tTITLE\tCATEGORY\tOPENED\tLAST ACCESSED")
			for _, f := range favorites {
				marker := " "
				if f.IsPinned {
					marker = "^"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					marker, shortID(f.ID), truncateString(f.DisplayText(), 40), f.Category, f.AccessCount, formatTime(f.LastAccessedAt))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list favorites in this category")

	return cmd
}

func newFavoriteOpenCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "open <favorite>",
		Short: "Record an access and print the document path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			f, err := s.ResolveFavorite(args[0])
			if err != nil {
				return err
			}
			if err := s.Favorites.MarkAccessed(f.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.FilePath)
			return nil
		},
	}
}

func newFavoritePinCmd(svc **service.Service, pinned bool) *cobra.Command {
	use, short := "pin <favorite>", "Pin a favorite to the top of the list"
	if !pinned {
		use, short = "unpin <favorite>", "Unpin a favorite"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			f, err := s.ResolveFavorite(args[0])
			if err != nil {
				return err
			}
			return s.Favorites.SetPinned(f.ID, pinned)
		},
	}
}

func newFavoriteCategoriesCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List favorite categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range (*svc).Favorites.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newFavoriteRemoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <favorite>",
		Aliases: []string{"rm"},
		Short:   "Remove a favorite",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			f, err := s.ResolveFavorite(args[0])
			if err != nil {
				return err
			}
			if err := s.Favorites.Remove(f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed favorite %s\n", f.DisplayText())
			return nil
		},
	}
}
