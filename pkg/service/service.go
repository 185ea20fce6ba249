package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/plantuml"
	"github.com/mattsolo1/grove-markview/pkg/render"
	"github.com/mattsolo1/grove-markview/pkg/search"
	"github.com/mattsolo1/grove-markview/pkg/store"
	"github.com/mattsolo1/grove-markview/pkg/tree"
)

// Service wires the stores, indexer and renderer together for the CLI
type Service struct {
	Config    *Config
	Store     *store.Store
	Scanner   *tree.Scanner
	Projects  *ProjectService
	Favorites *FavoriteService
	Renderer  *render.Renderer

	logger logrus.FieldLogger
}

// Config holds service configuration
type Config struct {
	DataDir          string
	MaxDepth         int
	Theme            models.Theme
	FontSize         int
	PlantUMLServer   string
	RespectGitIgnore bool
	IndexFile        string
}

// New creates the service and loads both collections from disk
func New(config *Config, logger logrus.FieldLogger) (*Service, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	st, err := store.New(dataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	scanner := tree.NewScanner(logger, tree.Options{RespectGitIgnore: config.RespectGitIgnore})

	if config.MaxDepth <= 0 {
		config.MaxDepth = tree.DefaultMaxDepth
	}

	s := &Service{
		Config:    config,
		Store:     st,
		Scanner:   scanner,
		Projects:  NewProjectService(st, scanner, WithMaxDepth(config.MaxDepth), WithProjectLogger(logger)),
		Favorites: NewFavoriteService(st, logger),
		Renderer:  render.New(nil, plantuml.NewEncoder(config.PlantUMLServer), logger),
		logger:    logger,
	}

	s.Projects.Load()
	s.Favorites.Load()

	return s, nil
}

// RenderOptions returns the page options from configuration
func (s *Service) RenderOptions() render.Options {
	return render.Options{Theme: s.Config.Theme, FontSize: s.Config.FontSize}
}

// RenderFile reads a document and renders it with the configured theme
func (s *Service) RenderFile(path string) (*render.Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return s.Renderer.Render(string(content), s.RenderOptions())
}

// ResolveProject finds a project by id, unique id prefix or case-insensitive
// name. An empty reference resolves to the active project.
func (s *Service) ResolveProject(ref string) (*models.Project, error) {
	if ref == "" {
		if active := s.Projects.Active(); active != nil {
			return active, nil
		}
		return nil, fmt.Errorf("no active project: %w", ErrNotFound)
	}

	if p, err := s.Projects.Get(ref); err == nil {
		return p, nil
	}

	var matches []*models.Project
	for _, p := range s.Projects.List() {
		if strings.EqualFold(p.Name, ref) || strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, notFound("project", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// ResolveFavorite finds a favorite by id, unique id prefix or document path
func (s *Service) ResolveFavorite(ref string) (*models.Favorite, error) {
	if f, err := s.Favorites.Get(ref); err == nil {
		return f, nil
	}
	if f := s.Favorites.FindByPath(ref); f != nil {
		return f, nil
	}

	var matches []*models.Favorite
	for _, f := range s.Favorites.List() {
		if strings.HasPrefix(f.ID, ref) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, notFound("favorite", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("favorite reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// OpenIndex opens the search index in the data directory. Callers close it.
func (s *Service) OpenIndex() (*search.Index, error) {
	name := s.Config.IndexFile
	if name == "" {
		name = "index.db"
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.Store.Dir(), name)
	}
	index, err := search.NewIndex(name)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return index, nil
}

// ReindexProject refreshes a project's files and rebuilds its search entries
func (s *Service) ReindexProject(ctx context.Context, index *search.Index, project *models.Project) (int, error) {
	if err := s.Projects.RefreshFiles(ctx, project); err != nil {
		return 0, err
	}
	count, err := index.IndexProject(ctx, project)
	if err != nil {
		return count, err
	}
	s.logger.WithField("project", project.Name).WithField("documents", count).Debug("reindexed project")
	return count, nil
}
