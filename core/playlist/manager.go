// Package playlist implements CRUD over playlist entities and the
// private/shared store migration. A playlist is owned by exactly one
// store at a time; sharing moves it, never copies it.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ShelfFM/catalog"
	"ShelfFM/logger"
	"ShelfFM/model"
	"ShelfFM/repository"

	"github.com/google/uuid"
)

var (
	// ErrPlaylistNotFound is returned when no store owns the id.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrIndexOutOfRange is returned for entry operations with a bad index.
	ErrIndexOutOfRange = errors.New("playlist entry index out of range")
	// ErrInvalidImport is returned when imported JSON has the wrong shape.
	ErrInvalidImport = errors.New("invalid playlist import payload")
)

// LocalStore is the private playlist side of the local persistent scope.
// The collection is rewritten in full on every change.
type LocalStore interface {
	LoadPlaylists() ([]model.Playlist, error)
	SavePlaylists([]model.Playlist) error
}

// PlaybackStopper is the cross-component contract with the playback
// engine: deleting the playlist that is currently playing must stop it.
type PlaybackStopper interface {
	StopIfPlaylist(playlistID string)
}

// CatalogProvider is used to warn about imported entries referencing
// items absent from the current catalog.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// Manager owns playlist CRUD across the two stores. Private playlists
// are mirrored in memory and persisted on every mutation; shared
// playlists live in the remote store. Remote failures fail soft: the
// error is returned and in-memory state is left unchanged.
type Manager struct {
	mu       sync.Mutex
	local    LocalStore
	shared   repository.SharedPlaylistRepository
	engine   PlaybackStopper
	catalogs CatalogProvider

	private []model.Playlist
}

// NewManager creates a manager and loads the private collection.
func NewManager(local LocalStore, shared repository.SharedPlaylistRepository, engine PlaybackStopper, catalogs CatalogProvider) (*Manager, error) {
	private, err := local.LoadPlaylists()
	if err != nil {
		return nil, fmt.Errorf("failed to load private playlists: %w", err)
	}
	for i := range private {
		private[i].Shared = false
	}
	return &Manager{
		local:    local,
		shared:   shared,
		engine:   engine,
		catalogs: catalogs,
		private:  private,
	}, nil
}

// List returns private playlists in stored order followed by shared
// playlists, most recently updated first. A shared store failure is
// logged and yields the private collection only.
func (m *Manager) List(ctx context.Context) []model.Playlist {
	m.mu.Lock()
	out := make([]model.Playlist, 0, len(m.private))
	for _, p := range m.private {
		out = append(out, *p.Clone())
	}
	m.mu.Unlock()

	shared, err := m.shared.List(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrStoreNotConfigured) {
			logger.Warn("Failed to list shared playlists", logger.ErrorField(err))
		}
		return out
	}
	return append(out, shared...)
}

// Get returns the playlist owned by either store.
func (m *Manager) Get(ctx context.Context, playlistID string) (*model.Playlist, error) {
	m.mu.Lock()
	for i := range m.private {
		if m.private[i].ID == playlistID {
			pl := m.private[i].Clone()
			m.mu.Unlock()
			return pl, nil
		}
	}
	m.mu.Unlock()

	shared, err := m.shared.List(ctx)
	if err != nil && !errors.Is(err, repository.ErrStoreNotConfigured) {
		return nil, fmt.Errorf("failed to look up shared playlists: %w", err)
	}
	for i := range shared {
		if shared[i].ID == playlistID {
			return shared[i].Clone(), nil
		}
	}
	return nil, ErrPlaylistNotFound
}

// Create adds an empty private playlist.
func (m *Manager) Create(name string) (*model.Playlist, error) {
	now := time.Now()
	pl := model.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		Items:     model.PlaylistItemList{},
		Shared:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := append(clonePlaylists(m.private), pl)
	if err := m.local.SavePlaylists(next); err != nil {
		return nil, err
	}
	m.private = next
	logger.Info("Playlist created",
		logger.String("playlistId", pl.ID),
		logger.String("name", name))
	return pl.Clone(), nil
}

// Rename updates the playlist name.
func (m *Manager) Rename(ctx context.Context, playlistID, name string) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		pl.Name = name
		return nil
	})
}

// SetCover updates the playlist cover marker.
func (m *Manager) SetCover(ctx context.Context, playlistID, coverItemID string) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		pl.CoverItemID = coverItemID
		return nil
	})
}

// AddItem appends an entry. Adding an item already present is a no-op;
// duplicates only enter a playlist via import or reorder/copy paths.
func (m *Manager) AddItem(ctx context.Context, playlistID, itemID string) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		if pl.ContainsItem(itemID) {
			return nil
		}
		pl.Items = append(pl.Items, model.PlaylistItem{ItemID: itemID})
		return nil
	})
}

// RemoveItem removes the entry at a position. Removal is by index, not
// by id, so duplicate entries stay addressable.
func (m *Manager) RemoveItem(ctx context.Context, playlistID string, index int) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		if index < 0 || index >= len(pl.Items) {
			return ErrIndexOutOfRange
		}
		pl.Items = append(pl.Items[:index], pl.Items[index+1:]...)
		return nil
	})
}

// ToggleLoop flips the loop flag of the entry at a position.
func (m *Manager) ToggleLoop(ctx context.Context, playlistID string, index int) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		if index < 0 || index >= len(pl.Items) {
			return ErrIndexOutOfRange
		}
		pl.Items[index].Loop = !pl.Items[index].Loop
		return nil
	})
}

// Reorder moves the entry at fromIndex to toIndex, shifting the entries
// in between. Equal indices are a no-op.
func (m *Manager) Reorder(ctx context.Context, playlistID string, fromIndex, toIndex int) error {
	return m.mutate(ctx, playlistID, func(pl *model.Playlist) error {
		if fromIndex == toIndex {
			return nil
		}
		if fromIndex < 0 || fromIndex >= len(pl.Items) || toIndex < 0 || toIndex >= len(pl.Items) {
			return ErrIndexOutOfRange
		}
		entry := pl.Items[fromIndex]
		items := append(pl.Items[:fromIndex], pl.Items[fromIndex+1:]...)
		items = append(items[:toIndex], append(model.PlaylistItemList{entry}, items[toIndex:]...)...)
		pl.Items = items
		return nil
	})
}

// SetShared migrates the playlist between the private and shared stores.
// Turning sharing on assigns a shareId only when absent; turning it off
// keeps the shareId so a later re-share reuses it.
func (m *Manager) SetShared(ctx context.Context, playlistID string, shared bool) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if shared {
		idx := -1
		for i := range m.private {
			if m.private[i].ID == playlistID {
				idx = i
				break
			}
		}
		if idx == -1 {
			// Already shared (or unknown): sharing a shared playlist is
			// a no-op, an unknown id is an error.
			return m.findSharedLocked(ctx, playlistID)
		}

		pl := m.private[idx].Clone()
		pl.Shared = true
		if pl.ShareID == "" {
			pl.ShareID = uuid.NewString()
		}
		pl.UpdatedAt = time.Now()

		// Insert into the destination store first; only then drop the
		// source copy, so a remote failure leaves state unchanged.
		if err := m.shared.Upsert(ctx, pl); err != nil {
			return nil, fmt.Errorf("failed to share playlist: %w", err)
		}
		next := append(clonePlaylists(m.private[:idx]), clonePlaylists(m.private[idx+1:])...)
		if err := m.local.SavePlaylists(next); err != nil {
			return nil, err
		}
		m.private = next

		logger.Info("Playlist shared",
			logger.String("playlistId", pl.ID),
			logger.String("shareId", pl.ShareID))
		return pl, nil
	}

	// Unshare: move from the shared store into the private collection.
	pl, err := m.findSharedLocked(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	pl.Shared = false // shareId deliberately kept

	next := append(clonePlaylists(m.private), *pl)
	if err := m.local.SavePlaylists(next); err != nil {
		return nil, err
	}
	if err := m.shared.Delete(ctx, playlistID); err != nil {
		// Roll the local insert back so the playlist is never in both
		// stores at once.
		if saveErr := m.local.SavePlaylists(m.private); saveErr != nil {
			logger.Error("Failed to roll back unshare", logger.ErrorField(saveErr))
		}
		return nil, fmt.Errorf("failed to unshare playlist: %w", err)
	}
	m.private = next

	logger.Info("Playlist unshared",
		logger.String("playlistId", pl.ID),
		logger.String("shareId", pl.ShareID))
	return pl, nil
}

// Delete removes the playlist from whichever store owns it and tells the
// playback engine to stop if it was the active queue.
func (m *Manager) Delete(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	idx := -1
	for i := range m.private {
		if m.private[i].ID == playlistID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		next := append(clonePlaylists(m.private[:idx]), clonePlaylists(m.private[idx+1:])...)
		if err := m.local.SavePlaylists(next); err != nil {
			m.mu.Unlock()
			return err
		}
		m.private = next
		m.mu.Unlock()
	} else {
		m.mu.Unlock()
		if _, err := m.Get(ctx, playlistID); err != nil {
			return err
		}
		if err := m.shared.Delete(ctx, playlistID); err != nil {
			return fmt.Errorf("failed to delete shared playlist: %w", err)
		}
	}

	if m.engine != nil {
		m.engine.StopIfPlaylist(playlistID)
	}
	logger.Info("Playlist deleted", logger.String("playlistId", playlistID))
	return nil
}

// mutate applies fn to the playlist in its owning store and persists the
// result. The mutation is discarded when persisting fails.
func (m *Manager) mutate(ctx context.Context, playlistID string, fn func(*model.Playlist) error) error {
	m.mu.Lock()
	for i := range m.private {
		if m.private[i].ID != playlistID {
			continue
		}
		next := clonePlaylists(m.private)
		pl := &next[i]
		if err := fn(pl); err != nil {
			m.mu.Unlock()
			return err
		}
		pl.UpdatedAt = time.Now()
		if err := m.local.SavePlaylists(next); err != nil {
			m.mu.Unlock()
			return err
		}
		m.private = next
		m.mu.Unlock()
		return nil
	}

	pl, err := m.findSharedLocked(ctx, playlistID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := fn(pl); err != nil {
		m.mu.Unlock()
		return err
	}
	pl.UpdatedAt = time.Now()
	err = m.shared.Upsert(ctx, pl)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to update shared playlist: %w", err)
	}
	return nil
}

// findSharedLocked looks a playlist up in the shared store.
func (m *Manager) findSharedLocked(ctx context.Context, playlistID string) (*model.Playlist, error) {
	shared, err := m.shared.List(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotConfigured) {
			return nil, ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to look up shared playlists: %w", err)
	}
	for i := range shared {
		if shared[i].ID == playlistID {
			return shared[i].Clone(), nil
		}
	}
	return nil, ErrPlaylistNotFound
}

func clonePlaylists(in []model.Playlist) []model.Playlist {
	out := make([]model.Playlist, 0, len(in))
	for i := range in {
		out = append(out, *in[i].Clone())
	}
	return out
}
