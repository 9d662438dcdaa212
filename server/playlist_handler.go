package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"ShelfFM/core/playlist"
	"ShelfFM/logger"

	"github.com/gorilla/mux"
)

// ListPlaylistsHandler returns private playlists followed by shared
// ones, most recently updated first.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.playlists.List(r.Context()),
	})
}

// CreatePlaylistHandler creates an empty private playlist.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Playlist name is required", http.StatusBadRequest)
		return
	}

	pl, err := h.playlists.Create(req.Name)
	if err != nil {
		logger.Error("Failed to create playlist", logger.ErrorField(err))
		http.Error(w, "Failed to create playlist", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, pl)
}

// GetPlaylistHandler returns one playlist from either store.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	pl, err := h.playlists.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.playlistError(w, err, "Failed to get playlist")
		return
	}
	respondJSON(w, http.StatusOK, pl)
}

// UpdatePlaylistHandler renames a playlist and/or updates its cover
// marker.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	var req struct {
		Name        *string `json:"name,omitempty"`
		CoverItemID *string `json:"coverItemId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, "Playlist name cannot be empty", http.StatusBadRequest)
			return
		}
		if err := h.playlists.Rename(ctx, playlistID, *req.Name); err != nil {
			h.playlistError(w, err, "Failed to rename playlist")
			return
		}
	}
	if req.CoverItemID != nil {
		if err := h.playlists.SetCover(ctx, playlistID, *req.CoverItemID); err != nil {
			h.playlistError(w, err, "Failed to update playlist cover")
			return
		}
	}

	pl, err := h.playlists.Get(ctx, playlistID)
	if err != nil {
		h.playlistError(w, err, "Failed to get playlist")
		return
	}
	respondJSON(w, http.StatusOK, pl)
}

// DeletePlaylistHandler deletes a playlist from whichever store owns
// it. Deleting the playlist that is currently playing stops playback.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.playlists.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.playlistError(w, err, "Failed to delete playlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted"})
}

// AddPlaylistItemHandler appends an item. Items already present are not
// duplicated via this path.
func (h *APIHandler) AddPlaylistItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "Item id is required", http.StatusBadRequest)
		return
	}
	if err := h.playlists.AddItem(r.Context(), mux.Vars(r)["id"], req.ItemID); err != nil {
		h.playlistError(w, err, "Failed to add item to playlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item added to playlist"})
}

// RemovePlaylistItemHandler removes the entry at a position.
func (h *APIHandler) RemovePlaylistItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "Invalid entry index", http.StatusBadRequest)
		return
	}
	if err := h.playlists.RemoveItem(r.Context(), vars["id"], idx); err != nil {
		h.playlistError(w, err, "Failed to remove item from playlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from playlist"})
}

// TogglePlaylistItemLoopHandler flips the loop flag of the entry at a
// position.
func (h *APIHandler) TogglePlaylistItemLoopHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "Invalid entry index", http.StatusBadRequest)
		return
	}
	if err := h.playlists.ToggleLoop(r.Context(), vars["id"], idx); err != nil {
		h.playlistError(w, err, "Failed to toggle entry loop")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Entry loop toggled"})
}

// ReorderPlaylistHandler moves an entry to a new position.
func (h *APIHandler) ReorderPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromIndex int `json:"fromIndex"`
		ToIndex   int `json:"toIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.playlists.Reorder(r.Context(), mux.Vars(r)["id"], req.FromIndex, req.ToIndex); err != nil {
		h.playlistError(w, err, "Failed to reorder playlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Playlist reordered"})
}

// SharePlaylistHandler migrates a playlist between the private and
// shared stores.
func (h *APIHandler) SharePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shared bool `json:"shared"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	pl, err := h.playlists.SetShared(r.Context(), mux.Vars(r)["id"], req.Shared)
	if err != nil {
		h.playlistError(w, err, "Failed to change playlist sharing")
		return
	}
	respondJSON(w, http.StatusOK, pl)
}

// ImportPlaylistHandler imports a serialized playlist into the shared
// store. Entries referencing unknown items are kept and reported as
// warnings.
func (h *APIHandler) ImportPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	pl, missing, err := h.playlists.Import(r.Context(), data)
	if err != nil {
		if errors.Is(err, playlist.ErrInvalidImport) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("Failed to import playlist", logger.ErrorField(err))
		http.Error(w, "Failed to import playlist", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{"playlist": pl}
	if len(missing) > 0 {
		resp["missingItemIds"] = missing
	}
	respondJSON(w, http.StatusCreated, resp)
}

// playlistError maps manager errors onto HTTP statuses.
func (h *APIHandler) playlistError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, playlist.ErrPlaylistNotFound):
		http.Error(w, "Playlist not found", http.StatusNotFound)
	case errors.Is(err, playlist.ErrIndexOutOfRange):
		http.Error(w, "Entry index out of range", http.StatusBadRequest)
	default:
		logger.Error(msg, logger.ErrorField(err))
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
