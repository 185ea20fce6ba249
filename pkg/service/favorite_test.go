package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-markview/pkg/models"
)

func TestAddFavorite(t *testing.T) {
	st := newTestStore(t)
	svc := NewFavoriteService(st, nil)
	dir := t.TempDir()

	first, err := svc.Add("First", filepath.Join(dir, "a.md"), "", "guides")
	require.NoError(t, err)
	second, err := svc.Add("Second", filepath.Join(dir, "b.md"), "desc", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 0, first.AccessCount)
	assert.False(t, first.IsPinned)

	reloaded := NewFavoriteService(st, nil)
	favorites := reloaded.Load()
	require.Len(t, favorites, 2)
	assert.Equal(t, "Second", favorites[0].Title, "newest favorite comes first")
	assert.Equal(t, "desc", favorites[0].Description)
}

func TestAddDuplicatePathIgnoresCase(t *testing.T) {
	st := newTestStore(t)
	svc := NewFavoriteService(st, nil)
	dir := t.TempDir()

	_, err := svc.Add("Notes", filepath.Join(dir, "Notes.md"), "", "")
	require.NoError(t, err)
	before, err := os.ReadFile(st.Path(FavoritesCollection))
	require.NoError(t, err)

	var events int
	svc.OnChange(func(Event) { events++ })

	_, err = svc.Add("Again", filepath.Join(dir, "NOTES.MD"), "", "")
	assert.ErrorIs(t, err, ErrDuplicatePath)
	assert.Len(t, svc.List(), 1)
	assert.Zero(t, events)

	after, err := os.ReadFile(st.Path(FavoritesCollection))
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected add is not saved")
}

func TestAddFavoriteValidation(t *testing.T) {
	svc := NewFavoriteService(newTestStore(t), nil)

	_, err := svc.Add(" ", "/tmp/a.md", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Add("Title", "", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMarkAccessed(t *testing.T) {
	st := newTestStore(t)
	svc := NewFavoriteService(st, nil)

	f, err := svc.Add("Doc", filepath.Join(t.TempDir(), "doc.md"), "", "")
	require.NoError(t, err)
	added := f.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.MarkAccessed(f.ID))
	require.NoError(t, svc.MarkAccessed(f.ID))

	assert.Equal(t, 2, f.AccessCount)
	assert.True(t, f.LastAccessedAt.After(added))
	assert.ErrorIs(t, svc.MarkAccessed("missing"), ErrNotFound)

	reloaded := NewFavoriteService(st, nil)
	favorites := reloaded.Load()
	require.Len(t, favorites, 1)
	assert.Equal(t, 2, favorites[0].AccessCount)
}

func TestListOrdering(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()
	seed := []*models.Favorite{
		{ID: "old", Title: "Old", FilePath: "/d/old.md", LastAccessedAt: now.Add(-3 * time.Hour)},
		{ID: "pinned-old", Title: "Pinned old", FilePath: "/d/p1.md", IsPinned: true, LastAccessedAt: now.Add(-5 * time.Hour)},
		{ID: "recent", Title: "Recent", FilePath: "/d/recent.md", LastAccessedAt: now},
		{ID: "pinned-new", Title: "Pinned new", FilePath: "/d/p2.md", IsPinned: true, LastAccessedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, st.Save(FavoritesCollection, seed))

	svc := NewFavoriteService(st, nil)
	svc.Load()

	var ids []string
	for _, f := range svc.List() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"pinned-new", "pinned-old", "recent", "old"}, ids)

	require.NoError(t, svc.SetPinned("old", true))
	assert.Equal(t, "pinned-new", svc.List()[0].ID)
	assert.Equal(t, "old", svc.List()[1].ID)
}

func TestCategories(t *testing.T) {
	svc := NewFavoriteService(newTestStore(t), nil)
	dir := t.TempDir()

	for i, c := range []string{"work", "", "Archive", "work", "  "} {
		_, err := svc.Add("Doc", filepath.Join(dir, strings.Repeat("x", i+1)+".md"), "", c)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Archive", "work"}, svc.Categories())
	assert.Len(t, svc.ByCategory("WORK"), 2)
	assert.Len(t, svc.ByCategory("archive"), 1)
	assert.Empty(t, svc.ByCategory("missing"))
}

func TestFindByPathAndRemove(t *testing.T) {
	svc := NewFavoriteService(newTestStore(t), nil)
	path := filepath.Join(t.TempDir(), "Guide.md")

	f, err := svc.Add("Guide", path, "", "")
	require.NoError(t, err)

	assert.Same(t, f, svc.FindByPath(strings.ToUpper(path)))
	assert.True(t, svc.IsFavorite(path))
	assert.Equal(t, "Guide (Guide.md)", f.DisplayText())

	got, err := svc.Get(f.ID)
	require.NoError(t, err)
	assert.Same(t, f, got)

	require.NoError(t, svc.Remove("unknown"))
	require.NoError(t, svc.Remove(f.ID))
	assert.False(t, svc.IsFavorite(path))
	_, err = svc.Get(f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFavorite(t *testing.T) {
	svc := NewFavoriteService(newTestStore(t), nil)
	dir := t.TempDir()

	a, err := svc.Add("A", filepath.Join(dir, "a.md"), "", "")
	require.NoError(t, err)
	b, err := svc.Add("B", filepath.Join(dir, "b.md"), "", "")
	require.NoError(t, err)

	edited := *a
	edited.Title = "A renamed"
	edited.Category = "docs"
	require.NoError(t, svc.Update(&edited))
	got, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A renamed", got.Title)

	clash := *b
	clash.FilePath = filepath.Join(dir, "A.MD")
	assert.ErrorIs(t, svc.Update(&clash), ErrDuplicatePath)

	assert.ErrorIs(t, svc.Update(&models.Favorite{ID: "missing", Title: "x", FilePath: "/x.md"}), ErrNotFound)
}

func TestLoadDropsDuplicatePaths(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(FavoritesCollection, []*models.Favorite{
		{ID: "1", Title: "One", FilePath: "/d/Doc.md"},
		{ID: "2", Title: "Two", FilePath: "/d/doc.md"},
	}))

	favorites := NewFavoriteService(st, nil).Load()
	require.Len(t, favorites, 1)
	assert.Equal(t, "1", favorites[0].ID)
}

func TestFailedSaveLeavesFavoritesUnchanged(t *testing.T) {
	st := newTestStore(t)
	svc := NewFavoriteService(st, nil)
	dir := t.TempDir()

	kept, err := svc.Add("Kept", filepath.Join(dir, "kept.md"), "", "")
	require.NoError(t, err)

	var events []Event
	svc.OnChange(func(e Event) { events = append(events, e) })

	blockCollection(t, st, FavoritesCollection)

	path := filepath.Join(dir, "new.md")
	_, err = svc.Add("New", path, "", "")
	require.Error(t, err)
	assert.Len(t, svc.List(), 1)
	assert.False(t, svc.IsFavorite(path))

	assert.Error(t, svc.MarkAccessed(kept.ID))
	assert.Equal(t, 0, kept.AccessCount)

	assert.Error(t, svc.SetPinned(kept.ID, true))
	assert.False(t, kept.IsPinned)

	updated := *kept
	updated.Title = "Changed"
	assert.Error(t, svc.Update(&updated))
	got, err := svc.Get(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Title)

	assert.Error(t, svc.Remove(kept.ID))
	assert.Len(t, svc.List(), 1)
	assert.Empty(t, events)

	require.NoError(t, os.RemoveAll(st.Path(FavoritesCollection)))
	_, err = svc.Add("New", path, "", "")
	require.NoError(t, err, "retry after a failed save must not report a duplicate")
	assert.Len(t, svc.List(), 2)
}
