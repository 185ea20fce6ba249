package service

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/store"
)

// FavoritesCollection is the store name of the favorites list
const FavoritesCollection = "favorites"

// FavoriteService owns the bookmarked documents. Paths are unique ignoring case.
// It is not safe for concurrent use; callers serialize access.
type FavoriteService struct {
	store     *store.Store
	logger    logrus.FieldLogger
	favorites []*models.Favorite
	changed   listeners[Event]
}

// NewFavoriteService creates a service backed by st. A nil logger discards output.
func NewFavoriteService(st *store.Store, logger logrus.FieldLogger) *FavoriteService {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &FavoriteService{
		store:     st,
		logger:    logger,
		favorites: []*models.Favorite{},
	}
}

// OnChange registers a callback fired after every mutation
func (s *FavoriteService) OnChange(fn func(Event)) {
	s.changed.add(fn)
}

// Load replaces the in-memory collection with the stored one, ordered pinned
// first and then by most recent access. Later duplicates of a path are dropped.
func (s *FavoriteService) Load() []*models.Favorite {
	favorites, ok := store.Load[[]*models.Favorite](s.store, FavoritesCollection)
	if !ok {
		favorites = nil
	}

	s.favorites = []*models.Favorite{}
	seen := map[string]bool{}
	for _, f := range favorites {
		if f == nil {
			continue
		}
		key := pathKey(f.FilePath)
		if seen[key] {
			s.logger.WithField("path", f.FilePath).Warn("dropping duplicate favorite")
			continue
		}
		seen[key] = true
		s.favorites = append(s.favorites, f)
	}
	sortFavorites(s.favorites)

	s.logger.WithField("count", len(s.favorites)).Debug("loaded favorites")
	s.changed.emit(Event{Kind: ChangeLoaded})
	return s.List()
}

// Save writes the whole collection to the store
func (s *FavoriteService) Save() error {
	if err := s.store.Save(FavoritesCollection, s.favorites); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	s.logger.WithField("count", len(s.favorites)).Debug("saved favorites")
	return nil
}

type favoriteInput struct {
	Title    string `json:"title"`
	FilePath string `json:"filePath"`
}

func (in favoriteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required")),
		validation.Field(&in.FilePath, validation.Required.Error("file path is required")),
	)
}

// Add bookmarks a document at the front of the collection. A path that is
// already bookmarked (ignoring case) returns ErrDuplicatePath and nothing is saved.
func (s *FavoriteService) Add(title, path, description, category string) (*models.Favorite, error) {
	in := favoriteInput{
		Title:    strings.TrimSpace(title),
		FilePath: strings.TrimSpace(path),
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	abs, err := filepath.Abs(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if existing := s.FindByPath(abs); existing != nil {
		return nil, fmt.Errorf("%s: %w", abs, ErrDuplicatePath)
	}

	favorite := models.NewFavorite(in.Title, abs, strings.TrimSpace(description), strings.TrimSpace(category))
	previous := s.favorites
	s.favorites = append([]*models.Favorite{favorite}, s.favorites...)

	if err := s.Save(); err != nil {
		s.favorites = previous
		return nil, err
	}
	s.logger.WithField("title", favorite.Title).Debug("added favorite")
	s.changed.emit(Event{Kind: ChangeCreated, ID: favorite.ID})
	return favorite, nil
}

// Remove deletes a favorite. Unknown ids are ignored.
func (s *FavoriteService) Remove(id string) error {
	i, f := s.find(id)
	if f == nil {
		return nil
	}
	previous := s.favorites
	s.favorites = slices.Concat(s.favorites[:i], s.favorites[i+1:])

	if err := s.Save(); err != nil {
		s.favorites = previous
		return err
	}
	s.logger.WithField("title", f.Title).Debug("removed favorite")
	s.changed.emit(Event{Kind: ChangeDeleted, ID: id})
	return nil
}

// Get looks up a favorite by id
func (s *FavoriteService) Get(id string) (*models.Favorite, error) {
	if _, f := s.find(id); f != nil {
		return f, nil
	}
	return nil, notFound("favorite", id)
}

// Update replaces the record with the same id. Moving it onto a path that
// another favorite already holds returns ErrDuplicatePath.
func (s *FavoriteService) Update(favorite *models.Favorite) error {
	if favorite == nil {
		return notFound("favorite", "")
	}
	i, existing := s.find(favorite.ID)
	if existing == nil {
		return notFound("favorite", favorite.ID)
	}

	in := favoriteInput{Title: strings.TrimSpace(favorite.Title), FilePath: strings.TrimSpace(favorite.FilePath)}
	if err := in.Validate(); err != nil {
		return validationError(err)
	}
	if other := s.FindByPath(favorite.FilePath); other != nil && other.ID != favorite.ID {
		return fmt.Errorf("%s: %w", favorite.FilePath, ErrDuplicatePath)
	}

	s.favorites[i] = favorite
	if err := s.Save(); err != nil {
		s.favorites[i] = existing
		return err
	}
	s.changed.emit(Event{Kind: ChangeUpdated, ID: favorite.ID})
	return nil
}

// MarkAccessed records that the favorite's document was opened
func (s *FavoriteService) MarkAccessed(id string) error {
	f, err := s.Get(id)
	if err != nil {
		return err
	}
	before := *f
	f.MarkAccessed()

	if err := s.Save(); err != nil {
		*f = before
		return err
	}
	s.changed.emit(Event{Kind: ChangeAccessed, ID: id})
	return nil
}

// SetPinned pins or unpins a favorite
func (s *FavoriteService) SetPinned(id string, pinned bool) error {
	f, err := s.Get(id)
	if err != nil {
		return err
	}
	if f.IsPinned == pinned {
		return nil
	}
	f.IsPinned = pinned

	if err := s.Save(); err != nil {
		f.IsPinned = !pinned
		return err
	}
	s.changed.emit(Event{Kind: ChangeUpdated, ID: id})
	return nil
}

// FindByPath returns the favorite whose absolute path equals path ignoring case
func (s *FavoriteService) FindByPath(path string) *models.Favorite {
	key := pathKey(path)
	for _, f := range s.favorites {
		if pathKey(f.FilePath) == key {
			return f
		}
	}
	return nil
}

// IsFavorite reports whether path is bookmarked
func (s *FavoriteService) IsFavorite(path string) bool {
	return s.FindByPath(path) != nil
}

// List returns all favorites, pinned first, then most recently accessed
func (s *FavoriteService) List() []*models.Favorite {
	out := make([]*models.Favorite, len(s.favorites))
	copy(out, s.favorites)
	sortFavorites(out)
	return out
}

// Categories returns the distinct non-empty categories in lexical order
func (s *FavoriteService) Categories() []string {
	seen := map[string]bool{}
	categories := []string{}
	for _, f := range s.favorites {
		c := strings.TrimSpace(f.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// ByCategory returns the favorites in category (ignoring case) in listing order
func (s *FavoriteService) ByCategory(category string) []*models.Favorite {
	out := []*models.Favorite{}
	for _, f := range s.favorites {
		if strings.EqualFold(strings.TrimSpace(f.Category), strings.TrimSpace(category)) {
			out = append(out, f)
		}
	}
	sortFavorites(out)
	return out
}

func (s *FavoriteService) find(id string) (int, *models.Favorite) {
	for i, f := range s.favorites {
		if f.ID == id {
			return i, f
		}
	}
	return -1, nil
}

func sortFavorites(favorites []*models.Favorite) {
	sort.SliceStable(favorites, func(i, j int) bool {
		a, b := favorites[i], favorites[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return a.LastAccessedAt.After(b.LastAccessedAt)
	})
}

// pathKey normalizes a path for case-insensitive comparison
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.ToLower(filepath.Clean(path))
}

