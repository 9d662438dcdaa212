package playback

import (
	"errors"
	"sync"

	"ShelfFM/catalog"
	"ShelfFM/logger"
	"ShelfFM/model"
)

var (
	// ErrEmptyPlaylist is returned when play is invoked on a playlist
	// with zero items.
	ErrEmptyPlaylist = errors.New("empty playlist, cannot play")
	// ErrNoPlayableEntry is returned when a playlist has items but none
	// of them resolve to a catalog item.
	ErrNoPlayableEntry = errors.New("playlist has no playable entries")
	// ErrItemNotFound is returned when selecting an id absent from the
	// catalog.
	ErrItemNotFound = errors.New("item not found in catalog")
	// ErrNothingSelected is returned for operations that require a
	// current selection.
	ErrNothingSelected = errors.New("no item selected")
)

// Tapping previous more than this far into an item restarts it instead
// of moving the queue position.
const restartThresholdSeconds = 3.0

// CatalogProvider hands out the current catalog snapshot.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// MediaResolver turns an item path into a fetchable locator.
type MediaResolver interface {
	Resolve(path string) (string, bool)
}

// Listener receives a session snapshot after every state transition.
type Listener func(model.PlaybackSession)

// Engine owns the playback session: the selected item, the active queue
// and position, loop mode, transport state and the transition rules for
// end-of-item, skip and seek. It decodes nothing itself; transport state
// is only ever what the surface reported back. All transitions are
// atomic: an operation either fully applies or is a no-op.
type Engine struct {
	mu       sync.Mutex
	catalogs CatalogProvider
	resolver MediaResolver

	selectedItemID  string
	queueKind       string
	queuePosition   int
	playlist        *model.Playlist // snapshot taken when play was invoked
	loopMode        string
	transport       model.Transport
	pendingAutoplay bool
	stateVersion    int64

	listeners []Listener
}

// NewEngine creates an idle engine.
func NewEngine(catalogs CatalogProvider, resolver MediaResolver) *Engine {
	return &Engine{
		catalogs:  catalogs,
		resolver:  resolver,
		queueKind: model.QueueKindNone,
		loopMode:  model.LoopNone,
	}
}

// Subscribe registers a listener for session snapshots.
func (e *Engine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Session returns the current session snapshot.
func (e *Engine) Session() model.PlaybackSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// SelectItem handles a direct selection while browsing: the item becomes
// current outside any queue. Skip still works afterwards by locating the
// item in library order lazily.
func (e *Engine) SelectItem(itemID string) error {
	e.mu.Lock()
	cat := e.catalogs.Current()
	if _, ok := cat.ItemByID(itemID); !ok {
		e.mu.Unlock()
		return ErrItemNotFound
	}

	e.selectedItemID = itemID
	e.queueKind = model.QueueKindNone
	e.playlist = nil
	e.queuePosition = 0
	e.resetTransportLocked()
	_, resolvable := e.resolveLocked(itemID)
	e.pendingAutoplay = resolvable

	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// PlayPlaylist activates a playlist queue from its first entry. An empty
// playlist is an error; a playlist with entries but nothing playable is
// a distinguishable no-op.
func (e *Engine) PlayPlaylist(pl *model.Playlist) error {
	if pl == nil || len(pl.Items) == 0 {
		return ErrEmptyPlaylist
	}

	e.mu.Lock()
	cat := e.catalogs.Current()
	snapshot := pl.Clone()
	q := playlistQueue(snapshot, cat)
	if q.firstPlayable(0) == -1 {
		e.mu.Unlock()
		return ErrNoPlayableEntry
	}

	e.playlist = snapshot
	e.queueKind = model.QueueKindPlaylist
	e.queuePosition = 0
	e.selectedItemID = snapshot.Items[0].ItemID
	e.resetTransportLocked()
	_, resolvable := e.resolveLocked(e.selectedItemID)
	e.pendingAutoplay = resolvable

	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// SkipNext moves to the next queue slot. Out of bounds wraps under loop
// mode All and is a no-op otherwise.
func (e *Engine) SkipNext() {
	e.skip(+1)
}

// SkipPrevious moves to the previous queue slot, except that more than
// three seconds into an item it restarts the current item instead.
func (e *Engine) SkipPrevious() {
	e.mu.Lock()
	if e.selectedItemID != "" && e.transport.PositionSeconds > restartThresholdSeconds {
		e.transport.PositionSeconds = 0
		snap := e.bumpLocked()
		e.mu.Unlock()
		e.notify(snap)
		return
	}
	e.mu.Unlock()
	e.skip(-1)
}

func (e *Engine) skip(delta int) {
	e.mu.Lock()
	q, idx, ok := e.activeQueueLocked()
	if !ok {
		e.mu.Unlock()
		return
	}

	target := idx + delta
	if target < 0 || target >= q.length() {
		if e.loopMode != model.LoopAll || q.length() == 0 {
			// Stay put, do not stop.
			e.mu.Unlock()
			return
		}
		if delta > 0 {
			target = 0
		} else {
			target = q.length() - 1
		}
	}

	e.moveToLocked(q, target)
	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// Seek sets the transport position, clamped to [0, duration]. Legal only
// while an item is selected.
func (e *Engine) Seek(positionSeconds float64) error {
	e.mu.Lock()
	if e.selectedItemID == "" {
		e.mu.Unlock()
		return ErrNothingSelected
	}
	if positionSeconds < 0 {
		positionSeconds = 0
	}
	if positionSeconds > e.transport.DurationSeconds {
		positionSeconds = e.transport.DurationSeconds
	}
	e.transport.PositionSeconds = positionSeconds
	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// ToggleLoop cycles None -> All -> One -> None and returns the new mode.
func (e *Engine) ToggleLoop() string {
	e.mu.Lock()
	switch e.loopMode {
	case model.LoopNone:
		e.loopMode = model.LoopAll
	case model.LoopAll:
		e.loopMode = model.LoopOne
	default:
		e.loopMode = model.LoopNone
	}
	mode := e.loopMode
	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
	return mode
}

// Stop halts playback and clears the active queue. The selection is kept
// for display.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopLocked()
	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// StopIfPlaylist stops and clears the queue when the given playlist is
// the one currently playing. Called when a playlist is deleted.
func (e *Engine) StopIfPlaylist(playlistID string) {
	e.mu.Lock()
	if e.queueKind != model.QueueKindPlaylist || e.playlist == nil || e.playlist.ID != playlistID {
		e.mu.Unlock()
		return
	}
	e.stopLocked()
	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// HandleSurfaceEvent consumes one transport event from the playback
// surface. Events tagged with an item other than the current selection
// are stale and dropped. The return value tells the surface whether it
// should start playback now (the one-shot autoplay intent, consumed on
// loadedmetadata).
func (e *Engine) HandleSurfaceEvent(ev SurfaceEvent) bool {
	e.mu.Lock()
	if ev.ItemID == "" || ev.ItemID != e.selectedItemID {
		e.mu.Unlock()
		logger.Debug("Dropping stale surface event",
			logger.String("kind", string(ev.Kind)),
			logger.String("eventItem", ev.ItemID),
			logger.String("selectedItem", e.selectedItemID))
		return false
	}

	autoplay := false
	switch ev.Kind {
	case EventPlay:
		e.transport.IsPlaying = true
	case EventPause:
		e.transport.IsPlaying = false
	case EventTimeUpdate:
		e.transport.PositionSeconds = ev.PositionSeconds
		if ev.DurationSeconds > 0 {
			e.transport.DurationSeconds = ev.DurationSeconds
		}
	case EventLoadedMetadata:
		e.transport.DurationSeconds = ev.DurationSeconds
		e.transport.PositionSeconds = 0
		autoplay = e.pendingAutoplay
		e.pendingAutoplay = false
	case EventEnded:
		e.endedLocked()
	default:
		e.mu.Unlock()
		logger.Warn("Unknown surface event kind", logger.String("kind", string(ev.Kind)))
		return false
	}

	snap := e.bumpLocked()
	e.mu.Unlock()
	e.notify(snap)
	return autoplay
}

// endedLocked applies the end-of-item transition rules.
func (e *Engine) endedLocked() {
	if e.selectedItemID == "" {
		return
	}

	// Loop-one, either globally or via the entry's own loop flag:
	// restart the same item, queue untouched.
	entryLoop := false
	if e.queueKind == model.QueueKindPlaylist && e.playlist != nil {
		q := playlistQueue(e.playlist, e.catalogs.Current())
		entryLoop = q.loopAt(e.queuePosition)
	}
	if e.loopMode == model.LoopOne || entryLoop {
		e.transport.PositionSeconds = 0
		e.transport.IsPlaying = true
		return
	}

	q, idx, ok := e.activeQueueLocked()
	if !ok {
		// Selection no longer locatable in any queue: just stop.
		e.transport.IsPlaying = false
		return
	}

	next := idx + 1
	switch {
	case next < q.length():
		e.moveToLocked(q, next)
	case e.loopMode == model.LoopAll && q.length() > 0:
		e.moveToLocked(q, 0)
	default:
		// End of the queue: stop, clear the queue, keep the selection.
		e.stopLocked()
	}
}

// activeQueueLocked resolves the queue currently governing skip and
// auto-advance, plus the current index within it. With no explicit queue
// the library order is used, located by the selected item's id.
func (e *Engine) activeQueueLocked() (*queue, int, bool) {
	cat := e.catalogs.Current()
	if e.queueKind == model.QueueKindPlaylist && e.playlist != nil {
		return playlistQueue(e.playlist, cat), e.queuePosition, true
	}
	if e.selectedItemID == "" {
		return nil, 0, false
	}
	q := libraryQueue(cat)
	if e.queueKind == model.QueueKindLibrary {
		return q, e.queuePosition, true
	}
	idx := q.indexOf(e.selectedItemID)
	if idx == -1 {
		return nil, 0, false
	}
	return q, idx, true
}

// moveToLocked transitions to a queue slot: position, selection and
// transport move together so the queue/selection invariant holds.
func (e *Engine) moveToLocked(q *queue, idx int) {
	id, ok := q.itemIDAt(idx)
	if !ok {
		return
	}
	e.queueKind = q.kind
	if q.kind != model.QueueKindPlaylist {
		e.playlist = nil
	}
	e.queuePosition = idx
	e.selectedItemID = id
	e.resetTransportLocked()
	_, resolvable := e.resolveLocked(id)
	// Landing on a dangling or unresolvable entry yields stopped with no
	// error; controls stay disabled until the user moves on.
	e.pendingAutoplay = resolvable
}

func (e *Engine) stopLocked() {
	e.queueKind = model.QueueKindNone
	e.playlist = nil
	e.queuePosition = 0
	e.transport.IsPlaying = false
	e.pendingAutoplay = false
}

func (e *Engine) resetTransportLocked() {
	e.transport = model.Transport{}
}

// resolveLocked returns the media locator for an item id, when both the
// item and a media base exist.
func (e *Engine) resolveLocked(itemID string) (string, bool) {
	item, ok := e.catalogs.Current().ItemByID(itemID)
	if !ok {
		return "", false
	}
	return e.resolver.Resolve(item.Path)
}

func (e *Engine) snapshotLocked() model.PlaybackSession {
	session := model.PlaybackSession{
		SelectedItemID:  e.selectedItemID,
		QueueKind:       e.queueKind,
		QueuePosition:   e.queuePosition,
		LoopMode:        e.loopMode,
		Transport:       e.transport,
		PendingAutoplay: e.pendingAutoplay,
		StateVersion:    e.stateVersion,
	}
	if e.queueKind == model.QueueKindPlaylist && e.playlist != nil {
		session.PlaylistID = e.playlist.ID
	}
	if e.selectedItemID != "" {
		if url, ok := e.resolveLocked(e.selectedItemID); ok {
			session.MediaURL = url
		}
	}
	return session
}

func (e *Engine) bumpLocked() model.PlaybackSession {
	e.stateVersion++
	return e.snapshotLocked()
}

func (e *Engine) notify(snap model.PlaybackSession) {
	for _, l := range e.listeners {
		l(snap)
	}
}
