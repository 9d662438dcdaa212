package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ShelfFM/core/playback"
	"ShelfFM/core/playlist"
	"ShelfFM/logger"
)

// GetPlaybackHandler returns the current playback session snapshot.
func (h *APIHandler) GetPlaybackHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// SelectItemHandler makes an item current outside any queue.
func (h *APIHandler) SelectItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "Item id is required", http.StatusBadRequest)
		return
	}
	if err := h.engine.SelectItem(req.ItemID); err != nil {
		if errors.Is(err, playback.ErrItemNotFound) {
			http.Error(w, "Item not found in catalog", http.StatusNotFound)
			return
		}
		logger.Error("Failed to select item", logger.ErrorField(err))
		http.Error(w, "Failed to select item", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// PlayPlaylistHandler activates a playlist queue from its first entry.
func (h *APIHandler) PlayPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID string `json:"playlistId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaylistID == "" {
		http.Error(w, "Playlist id is required", http.StatusBadRequest)
		return
	}

	pl, err := h.playlists.Get(r.Context(), req.PlaylistID)
	if err != nil {
		if errors.Is(err, playlist.ErrPlaylistNotFound) {
			http.Error(w, "Playlist not found", http.StatusNotFound)
			return
		}
		logger.Error("Failed to load playlist for playback", logger.ErrorField(err))
		http.Error(w, "Failed to load playlist", http.StatusInternalServerError)
		return
	}

	if err := h.engine.PlayPlaylist(pl); err != nil {
		switch {
		case errors.Is(err, playback.ErrEmptyPlaylist):
			http.Error(w, "Playlist is empty", http.StatusBadRequest)
		case errors.Is(err, playback.ErrNoPlayableEntry):
			http.Error(w, "Playlist has no playable entries", http.StatusConflict)
		default:
			logger.Error("Failed to start playlist", logger.ErrorField(err))
			http.Error(w, "Failed to start playlist", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// SkipNextHandler advances the queue by one slot.
func (h *APIHandler) SkipNextHandler(w http.ResponseWriter, r *http.Request) {
	h.engine.SkipNext()
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// SkipPreviousHandler moves back one slot, or restarts the current item
// when playback is past the restart threshold.
func (h *APIHandler) SkipPreviousHandler(w http.ResponseWriter, r *http.Request) {
	h.engine.SkipPrevious()
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// SeekHandler sets the transport position.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PositionSeconds float64 `json:"positionSeconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.engine.Seek(req.PositionSeconds); err != nil {
		if errors.Is(err, playback.ErrNothingSelected) {
			http.Error(w, "No item selected", http.StatusConflict)
			return
		}
		logger.Error("Failed to seek", logger.ErrorField(err))
		http.Error(w, "Failed to seek", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// ToggleLoopHandler cycles the loop mode.
func (h *APIHandler) ToggleLoopHandler(w http.ResponseWriter, r *http.Request) {
	mode := h.engine.ToggleLoop()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"loopMode": mode,
		"session":  h.engine.Session(),
	})
}

// StopHandler halts playback and clears the active queue.
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	h.engine.Stop()
	respondJSON(w, http.StatusOK, h.engine.Session())
}

// SurfaceEventHandler feeds one transport event from the playback
// surface into the engine. The response tells the surface whether it
// should start playing now.
func (h *APIHandler) SurfaceEventHandler(w http.ResponseWriter, r *http.Request) {
	var ev playback.SurfaceEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if ev.Kind == "" {
		http.Error(w, "Event kind is required", http.StatusBadRequest)
		return
	}

	autoplay := h.engine.HandleSurfaceEvent(ev)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"autoplay": autoplay,
		"session":  h.engine.Session(),
	})
}
