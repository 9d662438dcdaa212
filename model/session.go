package model

// Queue kinds: what ordered sequence currently governs next/previous.
const (
	QueueKindNone     = "none"
	QueueKindLibrary  = "library"  // catalog in ascending path order
	QueueKindPlaylist = "playlist" // an explicit playlist in stored order
)

// Loop modes.
const (
	LoopNone = "none" // stop at queue end
	LoopAll  = "all"  // wrap the queue
	LoopOne  = "one"  // repeat the current item indefinitely
)

// Transport mirrors the state reported by the external playback surface.
// The engine never predicts transport state ahead of the surface.
type Transport struct {
	IsPlaying       bool    `json:"isPlaying"`
	PositionSeconds float64 `json:"positionSeconds"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// PlaybackSession is a snapshot of the playback engine state. It lives
// only while the app runs and is never persisted.
type PlaybackSession struct {
	SelectedItemID  string    `json:"selectedItemId,omitempty"`
	QueueKind       string    `json:"queueKind"`
	QueuePosition   int       `json:"queuePosition"`
	PlaylistID      string    `json:"playlistId,omitempty"` // set when QueueKind is playlist
	LoopMode        string    `json:"loopMode"`
	Transport       Transport `json:"transport"`
	PendingAutoplay bool      `json:"pendingAutoplay"`
	MediaURL        string    `json:"mediaUrl,omitempty"` // locator the surface should load, empty when unresolvable
	StateVersion    int64     `json:"stateVersion"`       // bumped on every transition
}
