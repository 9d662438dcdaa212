package playback

// EventKind names the transport events reported by the external playback
// surface (the media element actually decoding bytes).
type EventKind string

const (
	EventPlay           EventKind = "play"
	EventPause          EventKind = "pause"
	EventTimeUpdate     EventKind = "timeupdate"
	EventLoadedMetadata EventKind = "loadedmetadata"
	EventEnded          EventKind = "ended"
)

// SurfaceEvent is one inbound message from the playback surface. ItemID
// tags the source the event pertains to; events tagged with an item that
// is no longer selected are stale and must be ignored.
type SurfaceEvent struct {
	Kind            EventKind `json:"kind"`
	ItemID          string    `json:"itemId"`
	PositionSeconds float64   `json:"positionSeconds"`
	DurationSeconds float64   `json:"durationSeconds"`
}
