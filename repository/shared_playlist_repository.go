package repository

import (
	"context"
	"fmt"
	"time"

	"ShelfFM/cache"
	"ShelfFM/db"
	"ShelfFM/logger"
	"ShelfFM/model"

	"gorm.io/gorm"
)

// StoreHealth is the result of the shared store validate probe.
type StoreHealth struct {
	Configured    bool `json:"configured"`
	Reachable     bool `json:"reachable"`
	SchemaPresent bool `json:"schemaPresent"`
}

// SharedPlaylistRepository defines the remote shared playlist store:
// a key-value table with overwrite-on-conflict semantics. Concurrent
// edits from two clients are last-writer-wins.
type SharedPlaylistRepository interface {
	// List returns all shared playlists, most recently updated first.
	List(ctx context.Context) ([]model.Playlist, error)
	// Upsert inserts or overwrites a playlist keyed by id.
	Upsert(ctx context.Context, playlist *model.Playlist) error
	// Delete removes a playlist by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, playlistID string) error
	// Validate probes configuration, connectivity and schema presence.
	Validate(ctx context.Context) StoreHealth
}

// gormSharedPlaylistRepository implements SharedPlaylistRepository on
// MySQL via GORM, with the listing cached in Redis.
type gormSharedPlaylistRepository struct {
	db *gorm.DB
}

// NewGormSharedPlaylistRepository creates a repository over the global
// GORM connection. The connection may be nil when the shared store is
// not configured; every operation then fails soft.
func NewGormSharedPlaylistRepository() SharedPlaylistRepository {
	return &gormSharedPlaylistRepository{db: db.GormDB}
}

// ErrStoreNotConfigured is returned when the shared store has no
// database connection behind it.
var ErrStoreNotConfigured = fmt.Errorf("shared playlist store not configured")

func (r *gormSharedPlaylistRepository) List(ctx context.Context) ([]model.Playlist, error) {
	if r.db == nil {
		return nil, ErrStoreNotConfigured
	}

	if playlists, ok := cache.GetSharedPlaylists(ctx); ok {
		return playlists, nil
	}

	var playlists []model.Playlist
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list shared playlists: %w", err)
	}
	for i := range playlists {
		playlists[i].Shared = true
	}

	cache.SetSharedPlaylists(ctx, playlists)
	return playlists, nil
}

func (r *gormSharedPlaylistRepository) Upsert(ctx context.Context, playlist *model.Playlist) error {
	if r.db == nil {
		return ErrStoreNotConfigured
	}

	// Save performs an insert-or-overwrite by primary key, which is
	// exactly the store's conflict policy.
	if err := r.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return fmt.Errorf("failed to upsert shared playlist %s: %w", playlist.ID, err)
	}

	cache.InvalidateSharedPlaylists(ctx)
	logger.Debug("Shared playlist upserted",
		logger.String("playlistId", playlist.ID),
		logger.String("name", playlist.Name),
		logger.Int("items", len(playlist.Items)))
	return nil
}

func (r *gormSharedPlaylistRepository) Delete(ctx context.Context, playlistID string) error {
	if r.db == nil {
		return ErrStoreNotConfigured
	}

	if err := r.db.WithContext(ctx).Delete(&model.Playlist{}, "id = ?", playlistID).Error; err != nil {
		return fmt.Errorf("failed to delete shared playlist %s: %w", playlistID, err)
	}

	cache.InvalidateSharedPlaylists(ctx)
	logger.Debug("Shared playlist deleted", logger.String("playlistId", playlistID))
	return nil
}

func (r *gormSharedPlaylistRepository) Validate(ctx context.Context) StoreHealth {
	health := StoreHealth{Configured: r.db != nil}
	if !health.Configured {
		return health
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Ping(probeCtx); err != nil {
		logger.Warn("Shared store unreachable", logger.ErrorField(err))
		return health
	}
	health.Reachable = true

	present, err := db.TablePresent(probeCtx, model.Playlist{}.TableName())
	if err != nil {
		logger.Warn("Shared store schema check failed", logger.ErrorField(err))
		return health
	}
	health.SchemaPresent = present
	return health
}
