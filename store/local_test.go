package store

import (
	"path/filepath"
	"testing"

	"ShelfFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Local {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "data", "shelffm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenCreatesMissingDirectories(t *testing.T) {
	l := openTestStore(t)
	require.NotNil(t, l)
}

func TestFavoritesRoundTrip(t *testing.T) {
	l := openTestStore(t)

	ids, err := l.LoadFavorites()
	require.NoError(t, err)
	assert.Nil(t, ids, "nothing saved yet")

	require.NoError(t, l.SaveFavorites([]string{"a", "b"}))
	ids, err = l.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	// Full rewrite: the saved set replaces, never merges.
	require.NoError(t, l.SaveFavorites([]string{"c"}))
	ids, err = l.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)
}

func TestPlaylistsRoundTrip(t *testing.T) {
	l := openTestStore(t)

	playlists, err := l.LoadPlaylists()
	require.NoError(t, err)
	assert.Nil(t, playlists)

	saved := []model.Playlist{
		{
			ID:   "p1",
			Name: "Evening",
			Items: model.PlaylistItemList{
				{ItemID: "i1"},
				{ItemID: "i2", Loop: true},
			},
			ShareID: "keep-me",
		},
		{ID: "p2", Name: "Empty", Items: model.PlaylistItemList{}},
	}
	require.NoError(t, l.SavePlaylists(saved))

	playlists, err = l.LoadPlaylists()
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "Evening", playlists[0].Name)
	require.Len(t, playlists[0].Items, 2)
	assert.True(t, playlists[0].Items[1].Loop)
	assert.Equal(t, "keep-me", playlists[0].ShareID, "share id survives the private store")
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelffm.db")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.SaveFavorites([]string{"x"}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	ids, err := l.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)
}
