package cache

import (
	"context"
	"encoding/json"
	"time"

	"ShelfFM/logger"
	"ShelfFM/model"

	"github.com/go-redis/redis/v8"
)

const (
	sharedPlaylistsKey = "shared:playlists"
	sharedPlaylistsTTL = 5 * time.Minute
)

// GetSharedPlaylists returns the cached shared playlist listing. ok is
// false on a miss, on any error, or when the cache is not configured;
// callers then fall through to the database.
func GetSharedPlaylists(ctx context.Context) ([]model.Playlist, bool) {
	if RedisClient == nil {
		return nil, false
	}

	data, err := RedisClient.Get(ctx, sharedPlaylistsKey).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read shared playlist cache", logger.ErrorField(err))
		}
		return nil, false
	}

	var playlists []model.Playlist
	if err := json.Unmarshal([]byte(data), &playlists); err != nil {
		logger.Warn("Corrupt shared playlist cache entry, dropping", logger.ErrorField(err))
		RedisClient.Del(ctx, sharedPlaylistsKey)
		return nil, false
	}
	return playlists, true
}

// SetSharedPlaylists caches the shared playlist listing. Failures are
// logged and otherwise ignored.
func SetSharedPlaylists(ctx context.Context, playlists []model.Playlist) {
	if RedisClient == nil {
		return
	}

	data, err := json.Marshal(playlists)
	if err != nil {
		logger.Warn("Failed to marshal shared playlists for cache", logger.ErrorField(err))
		return
	}
	if err := RedisClient.Set(ctx, sharedPlaylistsKey, data, sharedPlaylistsTTL).Err(); err != nil {
		logger.Warn("Failed to write shared playlist cache", logger.ErrorField(err))
	}
}

// InvalidateSharedPlaylists drops the cached listing after an upsert or
// delete against the shared store.
func InvalidateSharedPlaylists(ctx context.Context) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, sharedPlaylistsKey).Err(); err != nil {
		logger.Warn("Failed to invalidate shared playlist cache", logger.ErrorField(err))
	}
}
