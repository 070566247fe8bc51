package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = keiba.DefaultIdentityBounds(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

func raceID(t *testing.T, s string) keiba.RaceID {
	t.Helper()
	id, err := keiba.ParseRaceID(bounds, s)
	require.NoError(t, err)
	return id
}

// Story: Page Storage
// Downloaded pages are kept byte for byte in the site's encoding

func TestPageStore_SaveWritesPageFile(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory that does not exist yet
	dir := filepath.Join(t.TempDir(), "pages")
	store := fs.NewPageStore(dir, bounds)
	id := raceID(t, "201901010101")

	// When I save a page
	body := []byte{0xbb, 0xa5, 0xcb, 0xda}
	err := store.Save(context.Background(), &keiba.Page{ID: id, Body: body})
	require.NoError(t, err)

	// Then the body is written unchanged under the identifier
	got, err := os.ReadFile(filepath.Join(dir, "201901010101.html"))
	require.NoError(t, err)
	assert.Equal(t, body, got)

	// And no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPageStore_SaveReplacesExistingPage(t *testing.T) {
	t.Parallel()

	// Given a stored page
	store := fs.NewPageStore(t.TempDir(), bounds)
	id := raceID(t, "201901010101")
	require.NoError(t, store.Save(context.Background(), &keiba.Page{ID: id, Body: []byte("old")}))

	// When I save it again
	require.NoError(t, store.Save(context.Background(), &keiba.Page{ID: id, Body: []byte("new")}))

	// Then the new body is loaded
	page, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), page.Body)
}

func TestPageStore_LoadReturnsFetchTime(t *testing.T) {
	t.Parallel()

	// Given a page saved with a fetch time
	store := fs.NewPageStore(t.TempDir(), bounds)
	id := raceID(t, "201905020311")
	fetchedAt := time.Date(2023, time.May, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(context.Background(), &keiba.Page{ID: id, Body: []byte("x"), FetchedAt: fetchedAt}))

	// When I load it
	page, err := store.Load(context.Background(), id)

	// Then the identifier and fetch time are restored
	require.NoError(t, err)
	assert.Equal(t, id, page.ID)
	assert.True(t, fetchedAt.Equal(page.FetchedAt))
}

func TestPageStore_LoadMissingPage(t *testing.T) {
	t.Parallel()

	store := fs.NewPageStore(t.TempDir(), bounds)

	_, err := store.Load(context.Background(), raceID(t, "201901010101"))

	assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))
}

func TestPageStore_Exists(t *testing.T) {
	t.Parallel()

	store := fs.NewPageStore(t.TempDir(), bounds)
	stored := raceID(t, "201901010101")
	missing := raceID(t, "201901010102")
	require.NoError(t, store.Save(context.Background(), &keiba.Page{ID: stored, Body: []byte("x")}))

	ok, err := store.Exists(context.Background(), stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(context.Background(), missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageStore_List(t *testing.T) {
	t.Parallel()

	t.Run("returns stored identifiers in ascending order", func(t *testing.T) {
		t.Parallel()

		// Given pages saved out of order and unrelated files
		dir := t.TempDir()
		store := fs.NewPageStore(dir, bounds)
		for _, s := range []string{"201910071012", "201901010101", "201905020311"} {
			require.NoError(t, store.Save(context.Background(), &keiba.Page{ID: raceID(t, s), Body: []byte(s)}))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "201999010101.html"), []byte("x"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "201901010102.html"), 0755))

		// When I list the store
		ids, err := store.List(context.Background())

		// Then only valid page identifiers are returned, sorted
		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, "201901010101", ids[0].String())
		assert.Equal(t, "201905020311", ids[1].String())
		assert.Equal(t, "201910071012", ids[2].String())
	})

	t.Run("returns empty list for a missing directory", func(t *testing.T) {
		t.Parallel()

		store := fs.NewPageStore(filepath.Join(t.TempDir(), "missing"), bounds)

		ids, err := store.List(context.Background())

		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
