package catalog

import (
	"sort"

	"ShelfFM/model"
)

// Catalog is an immutable, ordered collection of media items keyed by id.
// The library order (ascending path, ties broken by id) is the stable
// total order used for "next/previous in library".
type Catalog struct {
	items        []model.MediaItem
	byID         map[string]*model.MediaItem
	libraryOrder []*model.MediaItem
	libraryIndex map[string]int
}

// New builds a catalog from loaded items. Items with duplicate ids keep
// the first occurrence.
func New(items []model.MediaItem) *Catalog {
	c := &Catalog{
		items:        items,
		byID:         make(map[string]*model.MediaItem, len(items)),
		libraryIndex: make(map[string]int, len(items)),
	}
	for i := range c.items {
		it := &c.items[i]
		if _, exists := c.byID[it.ID]; exists {
			continue
		}
		c.byID[it.ID] = it
		c.libraryOrder = append(c.libraryOrder, it)
	}
	sort.SliceStable(c.libraryOrder, func(i, j int) bool {
		if c.libraryOrder[i].Path != c.libraryOrder[j].Path {
			return c.libraryOrder[i].Path < c.libraryOrder[j].Path
		}
		return c.libraryOrder[i].ID < c.libraryOrder[j].ID
	})
	for i, it := range c.libraryOrder {
		c.libraryIndex[it.ID] = i
	}
	return c
}

// Items returns the items in load order.
func (c *Catalog) Items() []model.MediaItem {
	return c.items
}

// Len returns the number of distinct items.
func (c *Catalog) Len() int {
	return len(c.libraryOrder)
}

// ItemByID looks an item up by id.
func (c *Catalog) ItemByID(id string) (*model.MediaItem, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// LibraryOrder returns the items sorted by ascending path.
func (c *Catalog) LibraryOrder() []*model.MediaItem {
	return c.libraryOrder
}

// LibraryIndex returns the position of an item in library order.
func (c *Catalog) LibraryIndex(id string) (int, bool) {
	i, ok := c.libraryIndex[id]
	return i, ok
}
