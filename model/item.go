package model

// Media item types.
const (
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

// ItemMetadata carries optional descriptive metadata for a media item.
type ItemMetadata struct {
	Artist          string  `json:"artist,omitempty"`
	Album           string  `json:"album,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	Year            int     `json:"year,omitempty"`
	Genre           string  `json:"genre,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// MediaItem represents one entry in the media catalog. Items are loaded
// once per session from the catalog source and never mutated.
type MediaItem struct {
	ID         string        `json:"id"`
	Path       string        `json:"path"` // slash-delimited locator, also the folder grouping key
	Type       string        `json:"type"` // video, audio
	Collection string        `json:"collection"`
	Metadata   *ItemMetadata `json:"metadata,omitempty"`
}

// Title returns the display name for the item: the last path segment.
func (m *MediaItem) Title() string {
	for i := len(m.Path) - 1; i >= 0; i-- {
		if m.Path[i] == '/' {
			return m.Path[i+1:]
		}
	}
	return m.Path
}
