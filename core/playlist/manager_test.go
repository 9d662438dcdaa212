package playlist

import (
	"context"
	"errors"
	"sort"
	"testing"

	"ShelfFM/catalog"
	"ShelfFM/model"
	"ShelfFM/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLocalStore struct {
	playlists []model.Playlist
}

func (s *memLocalStore) LoadPlaylists() ([]model.Playlist, error) {
	out := make([]model.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out, nil
}

func (s *memLocalStore) SavePlaylists(playlists []model.Playlist) error {
	s.playlists = make([]model.Playlist, len(playlists))
	copy(s.playlists, playlists)
	return nil
}

type memSharedRepo struct {
	playlists map[string]model.Playlist
	upsertErr error
	deleteErr error
}

func newMemSharedRepo() *memSharedRepo {
	return &memSharedRepo{playlists: make(map[string]model.Playlist)}
}

func (r *memSharedRepo) List(ctx context.Context) ([]model.Playlist, error) {
	out := make([]model.Playlist, 0, len(r.playlists))
	for _, p := range r.playlists {
		p.Shared = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memSharedRepo) Upsert(ctx context.Context, playlist *model.Playlist) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.playlists[playlist.ID] = *playlist.Clone()
	return nil
}

func (r *memSharedRepo) Delete(ctx context.Context, playlistID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.playlists, playlistID)
	return nil
}

func (r *memSharedRepo) Validate(ctx context.Context) repository.StoreHealth {
	return repository.StoreHealth{Configured: true, Reachable: true, SchemaPresent: true}
}

type stopRecorder struct {
	stopped []string
}

func (s *stopRecorder) StopIfPlaylist(playlistID string) {
	s.stopped = append(s.stopped, playlistID)
}

type staticCatalogs struct {
	cat *catalog.Catalog
}

func (s *staticCatalogs) Current() *catalog.Catalog { return s.cat }

func newTestManager(t *testing.T) (*Manager, *memLocalStore, *memSharedRepo, *stopRecorder) {
	t.Helper()
	local := &memLocalStore{}
	shared := newMemSharedRepo()
	stopper := &stopRecorder{}
	catalogs := &staticCatalogs{cat: catalog.New([]model.MediaItem{
		{ID: "i1", Path: "music/one.mp3", Type: model.MediaTypeAudio},
		{ID: "i2", Path: "music/two.mp3", Type: model.MediaTypeAudio},
	})}
	m, err := NewManager(local, shared, stopper, catalogs)
	require.NoError(t, err)
	return m, local, shared, stopper
}

func TestCreatePersistsPrivatePlaylist(t *testing.T) {
	m, local, _, _ := newTestManager(t)

	pl, err := m.Create("Morning")
	require.NoError(t, err)
	assert.NotEmpty(t, pl.ID)
	assert.Equal(t, "Morning", pl.Name)
	assert.False(t, pl.Shared)
	assert.Empty(t, pl.ShareID)

	require.Len(t, local.playlists, 1)
	assert.Equal(t, pl.ID, local.playlists[0].ID)
}

func TestAddItemIsIdempotent(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	require.NoError(t, m.AddItem(ctx, pl.ID, "i1"))
	require.NoError(t, m.AddItem(ctx, pl.ID, "i1"))
	require.NoError(t, m.AddItem(ctx, pl.ID, "i2"))

	got, err := m.Get(ctx, pl.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "i1", got.Items[0].ItemID)
	assert.Equal(t, "i2", got.Items[1].ItemID)
}

func TestAddItemUnknownPlaylist(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	assert.ErrorIs(t, m.AddItem(context.Background(), "nope", "i1"), ErrPlaylistNotFound)
}

func TestRemoveItemByIndex(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	require.NoError(t, m.AddItem(ctx, pl.ID, "i1"))
	require.NoError(t, m.AddItem(ctx, pl.ID, "i2"))

	require.NoError(t, m.RemoveItem(ctx, pl.ID, 0))
	got, err := m.Get(ctx, pl.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "i2", got.Items[0].ItemID)

	assert.ErrorIs(t, m.RemoveItem(ctx, pl.ID, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.RemoveItem(ctx, pl.ID, -1), ErrIndexOutOfRange)
}

func TestToggleLoopFlag(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	require.NoError(t, m.AddItem(ctx, pl.ID, "i1"))

	require.NoError(t, m.ToggleLoop(ctx, pl.ID, 0))
	got, _ := m.Get(ctx, pl.ID)
	assert.True(t, got.Items[0].Loop)

	require.NoError(t, m.ToggleLoop(ctx, pl.ID, 0))
	got, _ = m.Get(ctx, pl.ID)
	assert.False(t, got.Items[0].Loop)

	assert.ErrorIs(t, m.ToggleLoop(ctx, pl.ID, 3), ErrIndexOutOfRange)
}

func TestReorderShiftsEntries(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.AddItem(ctx, pl.ID, id))
	}

	require.NoError(t, m.Reorder(ctx, pl.ID, 0, 2))
	got, _ := m.Get(ctx, pl.ID)
	ids := make([]string, 0, len(got.Items))
	for _, it := range got.Items {
		ids = append(ids, it.ItemID)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)

	require.NoError(t, m.Reorder(ctx, pl.ID, 3, 0))
	got, _ = m.Get(ctx, pl.ID)
	assert.Equal(t, "d", got.Items[0].ItemID)

	require.NoError(t, m.Reorder(ctx, pl.ID, 1, 1), "equal indices are a no-op")
	assert.ErrorIs(t, m.Reorder(ctx, pl.ID, 0, 9), ErrIndexOutOfRange)
}

func TestSharePlaylistMigratesStores(t *testing.T) {
	m, local, shared, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	got, err := m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Shared)
	assert.NotEmpty(t, got.ShareID)

	assert.Empty(t, local.playlists, "sharing moves, never copies")
	_, ok := shared.playlists[pl.ID]
	assert.True(t, ok)
}

func TestUnsharePreservesShareID(t *testing.T) {
	m, local, shared, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	sharedPl, err := m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)
	shareID := sharedPl.ShareID

	got, err := m.SetShared(ctx, pl.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Shared)
	assert.Equal(t, shareID, got.ShareID, "unshare keeps the share id")

	assert.Empty(t, shared.playlists)
	require.Len(t, local.playlists, 1)
	assert.Equal(t, shareID, local.playlists[0].ShareID)

	// Re-sharing must reuse the original share id, never mint a new one.
	reshared, err := m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)
	assert.Equal(t, shareID, reshared.ShareID)
}

func TestShareFailureLeavesPrivateStoreIntact(t *testing.T) {
	m, local, shared, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	shared.upsertErr = errors.New("db down")
	_, err = m.SetShared(ctx, pl.ID, true)
	require.Error(t, err)

	require.Len(t, local.playlists, 1, "a failed share must not drop the private copy")
	assert.Empty(t, shared.playlists)
}

func TestUnshareFailureRollsBack(t *testing.T) {
	m, local, shared, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	_, err = m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)

	shared.deleteErr = errors.New("db down")
	_, err = m.SetShared(ctx, pl.ID, false)
	require.Error(t, err)

	assert.Empty(t, local.playlists, "rollback: the playlist must not end up in both stores")
	_, ok := shared.playlists[pl.ID]
	assert.True(t, ok)
}

func TestMutateSharedPlaylist(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	_, err = m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)

	require.NoError(t, m.Rename(ctx, pl.ID, "renamed"))
	require.NoError(t, m.AddItem(ctx, pl.ID, "i1"))

	got, err := m.Get(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Shared)
}

func TestDeletePrivatePlaylistStopsEngine(t *testing.T) {
	m, local, _, stopper := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, pl.ID))
	assert.Empty(t, local.playlists)
	assert.Equal(t, []string{pl.ID}, stopper.stopped)
}

func TestDeleteSharedPlaylist(t *testing.T) {
	m, _, shared, stopper := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)
	_, err = m.SetShared(ctx, pl.ID, true)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, pl.ID))
	assert.Empty(t, shared.playlists)
	assert.Contains(t, stopper.stopped, pl.ID)
}

func TestDeleteUnknownPlaylist(t *testing.T) {
	m, _, _, stopper := newTestManager(t)
	assert.ErrorIs(t, m.Delete(context.Background(), "nope"), ErrPlaylistNotFound)
	assert.Empty(t, stopper.stopped)
}

func TestListMergesBothStores(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	p1, err := m.Create("private one")
	require.NoError(t, err)
	p2, err := m.Create("to be shared")
	require.NoError(t, err)
	_, err = m.SetShared(ctx, p2.ID, true)
	require.NoError(t, err)

	all := m.List(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, p1.ID, all[0].ID, "private collection comes first")
	assert.False(t, all[0].Shared)
	assert.Equal(t, p2.ID, all[1].ID)
	assert.True(t, all[1].Shared)
}

func TestRenameValidation(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	pl, err := m.Create("p")
	require.NoError(t, err)

	require.NoError(t, m.Rename(ctx, pl.ID, "new name"))
	got, _ := m.Get(ctx, pl.ID)
	assert.Equal(t, "new name", got.Name)

	require.NoError(t, m.SetCover(ctx, pl.ID, "i2"))
	got, _ = m.Get(ctx, pl.ID)
	assert.Equal(t, "i2", got.CoverItemID)
}
