package index

import (
	"testing"

	"ShelfFM/catalog"
	"ShelfFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeCatalog() *catalog.Catalog {
	return catalog.New([]model.MediaItem{
		{ID: "m1", Path: "music/rock/song one.mp3", Type: model.MediaTypeAudio,
			Metadata: &model.ItemMetadata{Artist: "The Band", Year: 1994}},
		{ID: "m2", Path: "music/rock/song two.mp3", Type: model.MediaTypeAudio},
		{ID: "m3", Path: "music/jazz/smooth.mp3", Type: model.MediaTypeAudio},
		{ID: "v1", Path: "videos/clip.mp4", Type: model.MediaTypeVideo},
		{ID: "r1", Path: "root item.mp3", Type: model.MediaTypeAudio},
	})
}

func folderNames(n *Node) []string {
	names := make([]string, 0, len(n.Folders))
	for _, f := range n.Folders {
		names = append(names, f.Name)
	}
	return names
}

func TestBuildGroupsByPathSegments(t *testing.T) {
	root := Build(treeCatalog())

	assert.Equal(t, []string{"music", "videos"}, folderNames(root))
	require.Len(t, root.Items, 1, "items without a folder sit at the root")
	assert.Equal(t, "r1", root.Items[0].ID)

	music := root.Folders[0]
	assert.Equal(t, []string{"jazz", "rock"}, folderNames(music), "children are sorted by name")
	assert.Equal(t, "music/rock", music.Folders[1].Path)
	assert.Len(t, music.Folders[1].Items, 2)
}

func TestFilterEmptyQueryReturnsTreeUnchanged(t *testing.T) {
	root := Build(treeCatalog())
	assert.Same(t, root, Filter(root, ""))
	assert.Same(t, root, Filter(root, "   "))
}

func TestFilterByItemTitle(t *testing.T) {
	root := Filter(Build(treeCatalog()), "smooth")

	require.Len(t, root.Folders, 1)
	music := root.Folders[0]
	assert.Equal(t, "music", music.Name)
	require.Len(t, music.Folders, 1)
	jazz := music.Folders[0]
	assert.Equal(t, "jazz", jazz.Name)
	require.Len(t, jazz.Items, 1)
	assert.Equal(t, "m3", jazz.Items[0].ID)
	assert.Empty(t, root.Items)
}

func TestFilterMatchingFolderKeepsSubtree(t *testing.T) {
	root := Filter(Build(treeCatalog()), "rock")

	require.Len(t, root.Folders, 1)
	rock := root.Folders[0].Folders[0]
	assert.Equal(t, "rock", rock.Name)
	assert.Len(t, rock.Items, 2, "a matching folder keeps everything below it")
}

func TestFilterByMetadata(t *testing.T) {
	byArtist := Filter(Build(treeCatalog()), "the band")
	require.Len(t, byArtist.Folders, 1)
	assert.Equal(t, "m1", byArtist.Folders[0].Folders[0].Items[0].ID)

	byYear := Filter(Build(treeCatalog()), "1994")
	require.Len(t, byYear.Folders, 1)
	assert.Equal(t, "m1", byYear.Folders[0].Folders[0].Items[0].ID)
}

func TestFilterCaseInsensitive(t *testing.T) {
	root := Filter(Build(treeCatalog()), "SMOOTH")
	require.Len(t, root.Folders, 1)
}

func TestFilterNoMatches(t *testing.T) {
	root := Filter(Build(treeCatalog()), "zzz-not-there")
	assert.Empty(t, root.Folders)
	assert.Empty(t, root.Items)
}
