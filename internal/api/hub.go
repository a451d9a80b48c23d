package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/pkg/logger"
)

// streamEnvelope is the wire frame pushed to stream subscribers on each
// completed evaluation.
type streamEnvelope struct {
	Type     string                   `json:"type"`
	Snapshot *contracts.MacroSnapshot `json:"snapshot"`
	Signal   *contracts.MacroSignal   `json:"signal"`
}

// Hub broadcasts freshly synthesized evaluations to websocket subscribers.
// SSOT: stream fan-out is managed only here.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan streamEnvelope
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan streamEnvelope),
	}
}

// Publish fans an evaluation out to every connected client. A client whose
// send buffer is full is dropped rather than allowed to stall the broadcast.
func (h *Hub) Publish(snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) {
	env := streamEnvelope{Type: "evaluation", Snapshot: snap, Signal: sig}

	h.mu.RLock()
	var stalled []*websocket.Conn
	for conn, send := range h.clients {
		select {
		case send <- env:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range stalled {
		h.logger.Warn("Dropping stalled stream client")
		h.remove(conn)
	}
}

// ServeHTTP upgrades the request and registers the client.
// GET /api/macro/stream
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	send := make(chan streamEnvelope, 8)

	h.mu.Lock()
	h.clients[conn] = send
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", count).Info("Stream client connected")

	go h.writeLoop(conn, send)
	go h.readLoop(conn)
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.remove(conn)
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan streamEnvelope) {
	for env := range send {
		if err := conn.WriteJSON(env); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readLoop drains client frames so pings are answered and disconnects are
// noticed.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	send, exists := h.clients[conn]
	if exists {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()

	if exists {
		conn.Close()
	}
}
