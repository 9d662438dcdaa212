package server

import (
	"encoding/json"
	"net/http"

	"ShelfFM/catalog"
	"ShelfFM/config"
	"ShelfFM/core/playback"
	"ShelfFM/core/playlist"
	"ShelfFM/index"
	"ShelfFM/logger"
	"ShelfFM/repository"
	"ShelfFM/store"

	"github.com/gorilla/mux"
)

// APIHandler bundles the dependencies of the HTTP handlers.
type APIHandler struct {
	cfg       *config.Config
	catalogs  *catalog.Provider
	resolver  *catalog.Resolver
	engine    *playback.Engine
	playlists *playlist.Manager
	local     *store.Local
	shared    repository.SharedPlaylistRepository
	stateHub  *StateHub
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	cfg *config.Config,
	catalogs *catalog.Provider,
	resolver *catalog.Resolver,
	engine *playback.Engine,
	playlists *playlist.Manager,
	local *store.Local,
	shared repository.SharedPlaylistRepository,
	stateHub *StateHub,
) *APIHandler {
	return &APIHandler{
		cfg:       cfg,
		catalogs:  catalogs,
		resolver:  resolver,
		engine:    engine,
		playlists: playlists,
		local:     local,
		shared:    shared,
		stateHub:  stateHub,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", logger.ErrorField(err))
	}
}

// GetCatalogHandler returns all catalog items with their resolved media
// locators.
func (h *APIHandler) GetCatalogHandler(w http.ResponseWriter, r *http.Request) {
	cat := h.catalogs.Current()
	items := make([]map[string]interface{}, 0, cat.Len())
	for _, it := range cat.LibraryOrder() {
		entry := map[string]interface{}{
			"id":         it.ID,
			"path":       it.Path,
			"type":       it.Type,
			"collection": it.Collection,
			"title":      it.Title(),
		}
		if it.Metadata != nil {
			entry["metadata"] = it.Metadata
		}
		if url, ok := h.resolver.Resolve(it.Path); ok {
			entry["mediaUrl"] = url
		}
		items = append(items, entry)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// GetCatalogTreeHandler returns the folder tree, optionally filtered by
// the q query parameter.
func (h *APIHandler) GetCatalogTreeHandler(w http.ResponseWriter, r *http.Request) {
	tree := index.Build(h.catalogs.Current())
	tree = index.Filter(tree, r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, map[string]interface{}{"tree": tree})
}

// GetFavoritesHandler returns the favorite item ids.
func (h *APIHandler) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := h.local.LoadFavorites()
	if err != nil {
		logger.Error("Failed to load favorites", logger.ErrorField(err))
		http.Error(w, "Failed to load favorites", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": ids})
}

// AddFavoriteHandler marks an item as favorite. The full set is
// rewritten on every change.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ids, err := h.local.LoadFavorites()
	if err != nil {
		logger.Error("Failed to load favorites", logger.ErrorField(err))
		http.Error(w, "Failed to load favorites", http.StatusInternalServerError)
		return
	}
	for _, id := range ids {
		if id == req.ItemID {
			respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": ids})
			return
		}
	}
	ids = append(ids, req.ItemID)
	if err := h.local.SaveFavorites(ids); err != nil {
		logger.Error("Failed to save favorites", logger.ErrorField(err))
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": ids})
}

// RemoveFavoriteHandler unmarks a favorite item.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["item_id"]

	ids, err := h.local.LoadFavorites()
	if err != nil {
		logger.Error("Failed to load favorites", logger.ErrorField(err))
		http.Error(w, "Failed to load favorites", http.StatusInternalServerError)
		return
	}
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != itemID {
			next = append(next, id)
		}
	}
	if err := h.local.SaveFavorites(next); err != nil {
		logger.Error("Failed to save favorites", logger.ErrorField(err))
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": next})
}

// ValidateStoreHandler probes the shared playlist store.
func (h *APIHandler) ValidateStoreHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.shared.Validate(r.Context()))
}

// VersionHandler reports the running version, backing the client's
// update banner.
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"version": Version})
}
