// Package store provides the local persistent scope: favorites and
// private playlists, kept in an embedded BoltDB file. Both keys follow
// load-on-start/save-on-change semantics and are rewritten in full on
// every change.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ShelfFM/logger"
	"ShelfFM/model"

	"go.etcd.io/bbolt"
)

var (
	bucketFavorites = []byte("favorites")
	bucketPlaylists = []byte("playlists")
)

// valueKey is the single key per bucket holding the whole collection.
var valueKey = []byte("v")

// Local is the device-scoped persistent store.
type Local struct {
	db *bbolt.DB
}

// Open opens (or creates) the local store file and its buckets.
func Open(path string) (*Local, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store at %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketFavorites, bucketPlaylists} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", string(bucket), err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Local store opened", logger.String("path", path))
	return &Local{db: db}, nil
}

// Close closes the store file.
func (l *Local) Close() error {
	return l.db.Close()
}

// LoadFavorites returns the favorite item ids, or nil when none were
// ever saved.
func (l *Local) LoadFavorites() ([]string, error) {
	var ids []string
	err := l.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFavorites).Get(valueKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &ids)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return ids, nil
}

// SaveFavorites rewrites the full favorites set.
func (l *Local) SaveFavorites(ids []string) error {
	return l.putJSON(bucketFavorites, ids, "favorites")
}

// LoadPlaylists returns the private playlists in stored order, or nil
// when none were ever saved.
func (l *Local) LoadPlaylists() ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := l.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPlaylists).Get(valueKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &playlists)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}
	return playlists, nil
}

// SavePlaylists rewrites the full private playlist collection.
func (l *Local) SavePlaylists(playlists []model.Playlist) error {
	return l.putJSON(bucketPlaylists, playlists, "playlists")
}

func (l *Local) putJSON(bucket []byte, v interface{}, what string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	err = l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(valueKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", what, err)
	}
	return nil
}
