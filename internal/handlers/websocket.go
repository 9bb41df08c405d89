package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, same-host UI
	},
}

// wsEvent is the envelope for every pushed message.
type wsEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// WebSocketHandler pushes chat refinements to connected clients. Implements
// interfaces.RefinementListener.
type WebSocketHandler struct {
	logger arbor.ILogger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex // per-conn write lock
}

func NewWebSocketHandler(logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		logger:  logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// HandleWebSocket handles GET /ws upgrade requests
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().Int("clients", count).Msg("WebSocket client connected")

	// Reader drains client frames and detects disconnect.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	conn.Close()
	h.logger.Info().Int("clients", count).Msg("WebSocket client disconnected")
}

// OnRefinement broadcasts an in-place chat answer replacement.
func (h *WebSocketHandler) OnRefinement(msg *models.ChatMessage) {
	h.broadcast(wsEvent{
		Type:      "chat_refinement",
		Timestamp: time.Now(),
		Payload:   msg,
	})
}

func (h *WebSocketHandler) broadcast(event wsEvent) {
	h.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for conn, mu := range h.clients {
		conns[conn] = mu
	}
	h.mu.RUnlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteJSON(event)
		mu.Unlock()
		if err != nil {
			h.logger.Debug().Err(err).Msg("Dropping unwritable WebSocket client")
			h.removeClient(conn)
		}
	}
}

// Close disconnects all clients.
func (h *WebSocketHandler) Close() {
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()
}
