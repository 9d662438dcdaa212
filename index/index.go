package index

import (
	"sort"
	"strconv"
	"strings"

	"ShelfFM/catalog"
	"ShelfFM/model"
)

// Node is one folder of the catalog tree. Items sit in the folder named
// by all but the last segment of their path.
type Node struct {
	Name    string             `json:"name"`
	Path    string             `json:"path"`
	Folders []*Node            `json:"folders,omitempty"`
	Items   []*model.MediaItem `json:"items,omitempty"`
}

// Build derives the folder tree from a catalog snapshot. Purely derived;
// the catalog is not mutated. Children are sorted by name for a stable
// rendering order.
func Build(c *catalog.Catalog) *Node {
	root := &Node{Name: "", Path: ""}
	for _, it := range c.LibraryOrder() {
		segments := strings.Split(it.Path, "/")
		node := root
		for _, seg := range segments[:len(segments)-1] {
			if seg == "" {
				continue
			}
			node = node.child(seg)
		}
		node.Items = append(node.Items, it)
	}
	root.sortTree()
	return root
}

func (n *Node) child(name string) *Node {
	for _, f := range n.Folders {
		if f.Name == name {
			return f
		}
	}
	path := name
	if n.Path != "" {
		path = n.Path + "/" + name
	}
	f := &Node{Name: name, Path: path}
	n.Folders = append(n.Folders, f)
	return f
}

func (n *Node) sortTree() {
	sort.Slice(n.Folders, func(i, j int) bool { return n.Folders[i].Name < n.Folders[j].Name })
	for _, f := range n.Folders {
		f.sortTree()
	}
}

// Filter returns a reduced copy of the tree. A folder is retained when
// its name matches the query or any descendant file matches. Matching is
// a case-insensitive substring test over title, path, collection,
// description, artist, album, genre and year. An empty query returns the
// tree unchanged.
func Filter(root *Node, query string) *Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return root
	}
	filtered := filterNode(root, q)
	if filtered == nil {
		return &Node{Name: root.Name, Path: root.Path}
	}
	return filtered
}

func filterNode(n *Node, q string) *Node {
	// A matching folder name keeps the whole subtree.
	if n.Name != "" && strings.Contains(strings.ToLower(n.Name), q) {
		return n
	}

	out := &Node{Name: n.Name, Path: n.Path}
	for _, f := range n.Folders {
		if kept := filterNode(f, q); kept != nil {
			out.Folders = append(out.Folders, kept)
		}
	}
	for _, it := range n.Items {
		if matchesItem(it, q) {
			out.Items = append(out.Items, it)
		}
	}
	if len(out.Folders) == 0 && len(out.Items) == 0 {
		return nil
	}
	return out
}

func matchesItem(it *model.MediaItem, q string) bool {
	fields := []string{it.Title(), it.Path, it.Collection}
	if md := it.Metadata; md != nil {
		fields = append(fields, md.Artist, md.Album, md.Genre, md.Description)
		if md.Year != 0 {
			fields = append(fields, strconv.Itoa(md.Year))
		}
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
