package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/store"
	"github.com/mattsolo1/grove-markview/pkg/tree"
)

// ProjectsCollection is the store name of the project list
const ProjectsCollection = "projects"

// ProjectService owns the project collection and its single active slot.
// It is not safe for concurrent use; callers serialize access.
type ProjectService struct {
	store    *store.Store
	scanner  *tree.Scanner
	logger   logrus.FieldLogger
	maxDepth int

	projects []*models.Project
	active   *models.Project

	changed       listeners[Event]
	activeChanged listeners[*models.Project]
}

// ProjectOption configures a ProjectService
type ProjectOption func(*ProjectService)

// WithMaxDepth sets how deep project folders are scanned
func WithMaxDepth(depth int) ProjectOption {
	return func(s *ProjectService) {
		s.maxDepth = depth
	}
}

// WithProjectLogger sets the service logger
func WithProjectLogger(logger logrus.FieldLogger) ProjectOption {
	return func(s *ProjectService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProjectService creates a service backed by st that indexes folders with scanner
func NewProjectService(st *store.Store, scanner *tree.Scanner, opts ...ProjectOption) *ProjectService {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &ProjectService{
		store:    st,
		scanner:  scanner,
		logger:   discard,
		maxDepth: tree.DefaultMaxDepth,
		projects: []*models.Project{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a callback fired after every mutation
func (s *ProjectService) OnChange(fn func(Event)) {
	s.changed.add(fn)
}

// OnActiveChanged registers a callback fired when the active slot changes.
// It receives nil when the slot is cleared.
func (s *ProjectService) OnActiveChanged(fn func(*models.Project)) {
	s.activeChanged.add(fn)
}

// Load replaces the in-memory collection with the stored one. Missing or
// unreadable data yields an empty collection. When several records are flagged
// active the first one wins and the rest are cleared; the correction is written
// on the next save.
func (s *ProjectService) Load() []*models.Project {
	projects, ok := store.Load[[]*models.Project](s.store, ProjectsCollection)
	if !ok {
		projects = []*models.Project{}
	}

	previous := s.active
	s.projects = s.projects[:0]
	s.active = nil

	for _, p := range projects {
		if p == nil {
			continue
		}
		if p.Files == nil {
			p.Files = []models.FileEntry{}
		}
		if p.IsActive {
			if s.active == nil {
				s.active = p
			} else {
				s.logger.WithField("project", p.Name).Warn("clearing duplicate active flag")
				p.IsActive = false
			}
		}
		s.projects = append(s.projects, p)
	}

	s.logger.WithField("count", len(s.projects)).Debug("loaded projects")
	s.changed.emit(Event{Kind: ChangeLoaded})
	if previous != s.active {
		s.activeChanged.emit(s.active)
	}
	return s.List()
}

// Save writes the whole collection to the store
func (s *ProjectService) Save() error {
	if err := s.store.Save(ProjectsCollection, s.projects); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	s.logger.WithField("count", len(s.projects)).Debug("saved projects")
	return nil
}

// List returns the projects in collection order
func (s *ProjectService) List() []*models.Project {
	out := make([]*models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Get looks up a project by id
func (s *ProjectService) Get(id string) (*models.Project, error) {
	if _, p := s.find(id); p != nil {
		return p, nil
	}
	return nil, notFound("project", id)
}

// Active returns the active project, or nil
func (s *ProjectService) Active() *models.Project {
	return s.active
}

type projectInput struct {
	Name       string `json:"name"`
	FolderPath string `json:"folderPath"`
}

func (in projectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("project name is required")),
		validation.Field(&in.FolderPath,
			validation.Required.Error("folder path is required"),
			validation.By(existingFolder),
		),
	)
}

func existingFolder(value interface{}) error {
	path, _ := value.(string)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return validation.NewError("validation_folder_missing", "folder does not exist")
	}
	return nil
}

// Create registers a new project for an existing folder, scans it and persists
// the collection
func (s *ProjectService) Create(ctx context.Context, name, folderPath, description string) (*models.Project, error) {
	in := projectInput{
		Name:       strings.TrimSpace(name),
		FolderPath: strings.TrimSpace(folderPath),
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	abs, err := filepath.Abs(in.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("resolve folder: %w", err)
	}

	project := models.NewProject(in.Name, abs, strings.TrimSpace(description))
	if err := s.refreshFiles(ctx, project); err != nil {
		return nil, err
	}

	previous := s.projects
	s.projects = append(slices.Clip(s.projects), project)
	if err := s.Save(); err != nil {
		s.projects = previous
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"project": project.Name,
		"files":   len(project.Files),
	}).Debug("created project")
	s.changed.emit(Event{Kind: ChangeCreated, ID: project.ID})
	return project, nil
}

// SetActive makes id the active project, or clears the slot when id is empty.
// An unknown id returns ErrNotFound and leaves the slot unchanged.
func (s *ProjectService) SetActive(id string) error {
	var next *models.Project
	if id != "" {
		_, next = s.find(id)
		if next == nil {
			return notFound("project", id)
		}
	}

	if next == s.active {
		return nil
	}

	undo := s.setActive(next)
	if err := s.Save(); err != nil {
		undo()
		return err
	}
	s.activeChanged.emit(next)
	s.changed.emit(Event{Kind: ChangeActivated, ID: id})
	return nil
}

// setActive is the only place the active flag is moved between records. The
// returned func restores the previous slot when the change cannot be saved.
func (s *ProjectService) setActive(next *models.Project) (undo func()) {
	prev := s.active
	var prevOpened time.Time
	if next != nil {
		prevOpened = next.LastOpenedAt
	}

	if prev != nil {
		prev.IsActive = false
	}
	s.active = next
	if next != nil {
		next.IsActive = true
		next.LastOpenedAt = time.Now()
	}

	return func() {
		if next != nil {
			next.IsActive = false
			next.LastOpenedAt = prevOpened
		}
		if prev != nil {
			prev.IsActive = true
		}
		s.active = prev
	}
}

// Update replaces the stored record with the same id
func (s *ProjectService) Update(project *models.Project) error {
	if project == nil {
		return notFound("project", "")
	}
	i, existing := s.find(project.ID)
	if existing == nil {
		return notFound("project", project.ID)
	}
	if strings.TrimSpace(project.Name) == "" {
		return validationError(validation.Errors{"name": errors.New("project name is required")})
	}
	if project.Files == nil {
		project.Files = []models.FileEntry{}
	}

	wasActive := existing == s.active
	project.IsActive = wasActive

	s.projects[i] = project
	if wasActive {
		s.active = project
	}
	if err := s.Save(); err != nil {
		s.projects[i] = existing
		if wasActive {
			s.active = existing
		}
		return err
	}

	if wasActive {
		s.activeChanged.emit(project)
	}
	s.changed.emit(Event{Kind: ChangeUpdated, ID: project.ID})
	return nil
}

// Rename changes a project's display name
func (s *ProjectService) Rename(id, name string) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	updated := *p
	updated.Name = strings.TrimSpace(name)
	return s.Update(&updated)
}

// SetDescription changes a project's description
func (s *ProjectService) SetDescription(id, description string) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	updated := *p
	updated.Description = strings.TrimSpace(description)
	return s.Update(&updated)
}

// Delete removes a project, clearing the active slot first when needed.
// Unknown ids are ignored.
func (s *ProjectService) Delete(id string) error {
	i, p := s.find(id)
	if p == nil {
		return nil
	}

	wasActive := p == s.active
	undo := func() {}
	if wasActive {
		undo = s.setActive(nil)
	}
	previous := s.projects
	s.projects = slices.Concat(s.projects[:i], s.projects[i+1:])

	if err := s.Save(); err != nil {
		s.projects = previous
		undo()
		return err
	}
	if wasActive {
		s.activeChanged.emit(nil)
	}
	s.logger.WithField("project", p.Name).Debug("deleted project")
	s.changed.emit(Event{Kind: ChangeDeleted, ID: id})
	return nil
}

// RefreshFiles rescans the project's folder and replaces its cached file list.
// When the folder is gone the list is left as is and ErrFolderMissing is returned.
func (s *ProjectService) RefreshFiles(ctx context.Context, project *models.Project) error {
	previous := project.Files
	if err := s.refreshFiles(ctx, project); err != nil {
		return err
	}

	if _, p := s.find(project.ID); p != nil {
		if err := s.Save(); err != nil {
			project.Files = previous
			return err
		}
	}
	s.changed.emit(Event{Kind: ChangeRefreshed, ID: project.ID})
	return nil
}

func (s *ProjectService) refreshFiles(ctx context.Context, project *models.Project) error {
	info, err := os.Stat(project.FolderPath)
	if err != nil || !info.IsDir() {
		s.logger.WithField("path", project.FolderPath).Warn("project folder not found, keeping cached files")
		return fmt.Errorf("%s: %w", project.FolderPath, ErrFolderMissing)
	}

	root, err := s.scanner.Scan(ctx, project.FolderPath, s.maxDepth)
	if err != nil {
		return fmt.Errorf("scan %s: %w", project.FolderPath, err)
	}

	files := root.Documents()
	if files == nil {
		files = []models.FileEntry{}
	}
	project.Files = files
	return nil
}

func (s *ProjectService) find(id string) (int, *models.Project) {
	for i, p := range s.projects {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}
