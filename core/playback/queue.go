package playback

import (
	"ShelfFM/catalog"
	"ShelfFM/model"
)

// queue is an ordered, indexable sequence of item references: either the
// full library in ascending path order, or an explicit playlist in
// stored order. Playlist entries referencing missing items keep their
// slot so index arithmetic stays consistent with the visible editor.
type queue struct {
	kind    string
	entries []model.PlaylistItem // playlist queues only
	cat     *catalog.Catalog
}

func libraryQueue(cat *catalog.Catalog) *queue {
	return &queue{kind: model.QueueKindLibrary, cat: cat}
}

func playlistQueue(pl *model.Playlist, cat *catalog.Catalog) *queue {
	return &queue{kind: model.QueueKindPlaylist, entries: pl.Items, cat: cat}
}

func (q *queue) length() int {
	if q.kind == model.QueueKindPlaylist {
		return len(q.entries)
	}
	return q.cat.Len()
}

// itemIDAt returns the item id occupying a slot, dangling or not.
func (q *queue) itemIDAt(i int) (string, bool) {
	if i < 0 || i >= q.length() {
		return "", false
	}
	if q.kind == model.QueueKindPlaylist {
		return q.entries[i].ItemID, true
	}
	return q.cat.LibraryOrder()[i].ID, true
}

// itemAt resolves the slot to a catalog item. ok is false when the index
// is out of bounds or the reference dangles.
func (q *queue) itemAt(i int) (*model.MediaItem, bool) {
	id, ok := q.itemIDAt(i)
	if !ok {
		return nil, false
	}
	return q.cat.ItemByID(id)
}

// indexOf returns the first slot referencing the item, or -1.
func (q *queue) indexOf(itemID string) int {
	if q.kind == model.QueueKindPlaylist {
		for i, e := range q.entries {
			if e.ItemID == itemID {
				return i
			}
		}
		return -1
	}
	if i, ok := q.cat.LibraryIndex(itemID); ok {
		return i
	}
	return -1
}

// loopAt reports the per-entry loop flag of a playlist slot.
func (q *queue) loopAt(i int) bool {
	if q.kind != model.QueueKindPlaylist || i < 0 || i >= len(q.entries) {
		return false
	}
	return q.entries[i].Loop
}

// firstPlayable scans forward from a slot for an entry that resolves to
// a catalog item. Returns -1 when nothing from that slot on is playable.
func (q *queue) firstPlayable(from int) int {
	for i := from; i < q.length(); i++ {
		if _, ok := q.itemAt(i); ok {
			return i
		}
	}
	return -1
}
