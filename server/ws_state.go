package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"ShelfFM/logger"
	"ShelfFM/model"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StateHub fans playback session snapshots out to connected WebSocket
// clients. Every session transition produces one message; clients that
// fail a write are dropped.
type StateHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewStateHub creates an empty hub.
func NewStateHub() *StateHub {
	return &StateHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Broadcast sends a session snapshot to every connected client.
func (h *StateHub) Broadcast(session model.PlaybackSession) {
	data, err := json.Marshal(session)
	if err != nil {
		logger.Error("Failed to marshal playback session", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("Dropping playback subscriber", logger.ErrorField(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *StateHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *StateHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}

// PlaybackWSHandler upgrades the connection and streams session
// snapshots. The current session is sent immediately so a late joiner
// does not wait for the next transition.
func (h *APIHandler) PlaybackWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.stateHub.register(conn)
	logger.Info("Playback subscriber connected", logger.String("remote", conn.RemoteAddr().String()))

	if data, err := json.Marshal(h.engine.Session()); err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.stateHub.unregister(conn)
			return
		}
	}

	// The stream is one-way; reads only detect the close.
	go func() {
		defer h.stateHub.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
