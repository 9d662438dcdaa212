package catalog

import (
	"net/url"
	"strings"
)

// Resolver turns an item path into a fetchable media locator by joining
// it onto a configured media base address. Each path segment is
// percent-encoded independently.
type Resolver struct {
	base string
}

// NewResolver creates a resolver. An empty base means media cannot be
// resolved; the playback engine then never auto-starts.
func NewResolver(base string) *Resolver {
	return &Resolver{base: strings.TrimRight(base, "/")}
}

// Configured reports whether a media base is set.
func (r *Resolver) Configured() bool {
	return r != nil && r.base != ""
}

// Resolve returns the locator for an item path, or ok=false when no
// media base is configured.
func (r *Resolver) Resolve(path string) (string, bool) {
	if !r.Configured() {
		return "", false
	}
	segments := strings.Split(path, "/")
	encoded := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		encoded = append(encoded, url.PathEscape(seg))
	}
	return r.base + "/" + strings.Join(encoded, "/"), true
}
