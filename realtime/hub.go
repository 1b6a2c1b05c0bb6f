package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
)

// Hub tracks every open event stream by connection id so a later register
// call can bind a user to it. Presence itself lives in the Registry.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]*Connection
	registry *Registry
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		conns:    make(map[string]*Connection),
		registry: registry,
	}
}

func (h *Hub) Get(connectionID string) (*Connection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[connectionID]
	return conn, ok
}

func (h *Hub) add(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()
}

func (h *Hub) remove(conn *Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID)
	h.mu.Unlock()
	h.registry.Disconnect(conn)
}

// ServeSSE runs one event stream until the client goes away. The first
// event carries the connection id the client must send back to register.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	conn := NewConnection()
	h.add(conn)
	defer h.remove(conn)

	if err := conn.Emit("connected", map[string]string{"connectionId": conn.ID}); err != nil {
		logging.Logger.Warnf("Failed to queue connected event: %v", err)
	}

	// heartbeat comments keep the connection alive through proxies
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case frame := <-conn.Frames():
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
