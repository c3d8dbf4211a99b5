// Package ws implements the outbound transport over WebSockets: each user
// keeps at most one live socket registered in the hub, and every message the
// core sends to that identity is written to it.
package ws

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by Send when the user has no live socket.
var ErrNotConnected = errors.New("user has no active connection")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maps user identities to their WebSocket connections and implements
// transport.Sender. A second connection for the same identity replaces the
// first; writes to one connection are serialized by a per-connection mutex
// since gorilla/websocket allows only one concurrent writer.
type Hub struct {
	mu           sync.RWMutex
	conns        map[string]*conn
	writeTimeout time.Duration
}

type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		conns:        make(map[string]*conn),
		writeTimeout: 10 * time.Second,
	}
}

// Send writes one text message to the user's socket. Fails fast with
// ErrNotConnected when no socket is registered; a write error drops the
// connection so the next Send fails fast too.
func (h *Hub) Send(userID, text string) error {
	h.mu.RLock()
	c, exists := h.conns[userID]
	h.mu.RUnlock()

	if !exists {
		return ErrNotConnected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		h.remove(userID, c)
		return err
	}
	return nil
}

// Attach upgrades an HTTP request to a WebSocket and registers it for the
// identity. The connection stays registered until the peer disconnects or a
// newer connection for the same identity replaces it.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request, userID string) error {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &conn{ws: sock}

	h.mu.Lock()
	if old, exists := h.conns[userID]; exists {
		old.ws.Close()
	}
	h.conns[userID] = c
	h.mu.Unlock()

	log.Printf("[TRANSPORT] User %s connected", userID)

	// Drain inbound frames so pings and close frames are processed. Inbound
	// user text arrives over the HTTP webhook, not the socket.
	go h.readLoop(userID, c)

	return nil
}

func (h *Hub) readLoop(userID string, c *conn) {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			h.remove(userID, c)
			log.Printf("[TRANSPORT] User %s disconnected: %v", userID, err)
			return
		}
	}
}

// remove drops the connection, but only if it is still the registered one —
// a replacement socket must not be evicted by its predecessor's teardown.
func (h *Hub) remove(userID string, c *conn) {
	h.mu.Lock()
	if current, exists := h.conns[userID]; exists && current == c {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	c.ws.Close()
}

// Connected reports whether the identity currently has a live socket.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.conns[userID]
	return exists
}
