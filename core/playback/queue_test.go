package playback

import (
	"testing"

	"ShelfFM/catalog"
	"ShelfFM/model"

	"github.com/stretchr/testify/assert"
)

func queueTestCatalog() *catalog.Catalog {
	return catalog.New([]model.MediaItem{
		{ID: "v2", Path: "shows/b.mp4", Type: model.MediaTypeVideo},
		{ID: "v1", Path: "shows/a.mp4", Type: model.MediaTypeVideo},
	})
}

func TestLibraryQueueFollowsPathOrder(t *testing.T) {
	q := libraryQueue(queueTestCatalog())

	assert.Equal(t, 2, q.length())
	id, ok := q.itemIDAt(0)
	assert.True(t, ok)
	assert.Equal(t, "v1", id)
	assert.Equal(t, 1, q.indexOf("v2"))
}

func TestPlaylistQueueKeepsDanglingSlots(t *testing.T) {
	pl := &model.Playlist{ID: "p", Items: model.PlaylistItemList{
		{ItemID: "v1"},
		{ItemID: "missing"},
		{ItemID: "v2", Loop: true},
	}}
	q := playlistQueue(pl, queueTestCatalog())

	assert.Equal(t, 3, q.length())

	id, ok := q.itemIDAt(1)
	assert.True(t, ok, "a dangling reference still occupies its slot")
	assert.Equal(t, "missing", id)

	_, ok = q.itemAt(1)
	assert.False(t, ok, "a dangling reference does not resolve")

	it, ok := q.itemAt(2)
	assert.True(t, ok)
	assert.Equal(t, "v2", it.ID)

	assert.False(t, q.loopAt(1))
	assert.True(t, q.loopAt(2))
}

func TestIndexOfReturnsFirstOccurrence(t *testing.T) {
	pl := &model.Playlist{ID: "p", Items: model.PlaylistItemList{
		{ItemID: "v2"},
		{ItemID: "v1"},
		{ItemID: "v2"},
	}}
	q := playlistQueue(pl, queueTestCatalog())

	assert.Equal(t, 0, q.indexOf("v2"))
	assert.Equal(t, -1, q.indexOf("missing"))
}

func TestFirstPlayableSkipsDanglingEntries(t *testing.T) {
	pl := &model.Playlist{ID: "p", Items: model.PlaylistItemList{
		{ItemID: "gone1"},
		{ItemID: "gone2"},
		{ItemID: "v1"},
	}}
	q := playlistQueue(pl, queueTestCatalog())

	assert.Equal(t, 2, q.firstPlayable(0))
	assert.Equal(t, -1, q.firstPlayable(3))

	allGone := playlistQueue(&model.Playlist{ID: "p", Items: model.PlaylistItemList{{ItemID: "x"}}}, queueTestCatalog())
	assert.Equal(t, -1, allGone.firstPlayable(0))
}

func TestQueueBounds(t *testing.T) {
	q := libraryQueue(queueTestCatalog())

	_, ok := q.itemIDAt(-1)
	assert.False(t, ok)
	_, ok = q.itemIDAt(2)
	assert.False(t, ok)
}
