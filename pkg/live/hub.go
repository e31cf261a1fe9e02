// Package live pushes element updates to connected browsers over WebSocket.
//
// After a batch flush the target's rendered inner markup is broadcast to
// every client as a patch message. The page client installed by
// render.PageData.LivePath replaces the element's content with it.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/elkit/pkg/batch"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/render"
)

// DefaultPath is the endpoint the live preview is served on.
const DefaultPath = "/_elkit/live"

// MessageType represents the type of live message.
type MessageType string

const (
	TypePatch  MessageType = "patch"
	TypeReload MessageType = "reload"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type   MessageType `json:"type"`
	Target string      `json:"target,omitempty"`
	HTML   string      `json:"html,omitempty"`
}

// Hub manages WebSocket connections for the live preview.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewHub creates a hub that renders patches with renderer. A nil logger
// uses slog.Default().
func NewHub(renderer *render.Renderer, logger *slog.Logger) *Hub {
	if renderer == nil {
		renderer = render.NewRenderer(render.Config{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		renderer: renderer,
		logger:   logger,
	}
}

// HandleWebSocket upgrades the request and keeps the client registered until
// it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("live upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("live client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Patch broadcasts the inner markup of target.
func (h *Hub) Patch(target *dom.Element) {
	if target == nil {
		return
	}
	markup, err := h.renderer.RenderInner(target)
	if err != nil {
		h.logger.Error("live render failed", "target", target.ID(), "error", err)
		return
	}
	h.Broadcast(Message{Type: TypePatch, Target: target.ID(), HTML: markup})
}

// FlushHook returns a batch observer that patches every flushed target.
func (h *Hub) FlushHook() batch.FlushFunc {
	return func(target *dom.Element, moved int) {
		h.Patch(target)
	}
}

// NotifyReload asks every client to reload the page.
func (h *Hub) NotifyReload() {
	h.Broadcast(Message{Type: TypeReload})
}

// Broadcast sends msg to all clients. Clients that fail to receive it are
// dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
