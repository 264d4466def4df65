package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pagefold/mdserve/internal/assets"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ReloadHub serves the live-reload channel: it hands out the reload client
// script and pushes reload notifications to connected browsers.
type ReloadHub struct {
	connMu      sync.RWMutex
	connections map[*websocket.Conn]bool
	debug       bool
}

// NewReloadHub creates an empty hub.
func NewReloadHub(debug bool) *ReloadHub {
	return &ReloadHub{
		connections: make(map[*websocket.Conn]bool),
		debug:       debug,
	}
}

// ServeHTTP serves the client script at /livereload.js and upgrades /ws to
// the reload channel.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/livereload.js":
		w.Header().Set("Content-Type", "application/javascript")
		w.Write(assets.ReloadClientJS())
	case "/ws":
		h.serveWebSocket(w, r)
	default:
		http.NotFound(w, r)
	}
}

// serveWebSocket upgrades the connection and tracks it until the browser
// goes away.
func (h *ReloadHub) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	// Browsers don't send anything meaningful; the read loop only detects
	// the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ReloadHub) register(conn *websocket.Conn) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.connections[conn] = true
	if h.debug {
		log.Printf("[WS] Connection registered: %d active", len(h.connections))
	}
}

func (h *ReloadHub) unregister(conn *websocket.Conn) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	delete(h.connections, conn)
	conn.Close()
	if h.debug {
		log.Printf("[WS] Connection unregistered: %d active", len(h.connections))
	}
}

// ConnectionCount returns the number of connected clients.
func (h *ReloadHub) ConnectionCount() int {
	h.connMu.RLock()
	defer h.connMu.RUnlock()
	return len(h.connections)
}

// BroadcastReload sends a reload message to all connected clients.
func (h *ReloadHub) BroadcastReload(filePath string) {
	h.connMu.RLock()
	defer h.connMu.RUnlock()

	if len(h.connections) == 0 {
		return
	}

	msg := map[string]interface{}{
		"action": "reload",
		"path":   filePath,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Failed to marshal reload message: %v", err)
		return
	}

	if h.debug {
		log.Printf("[WS] Broadcasting reload for %s to %d connections", filePath, len(h.connections))
	}

	for conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[WS] Failed to send reload: %v", err)
		}
	}
}
