package auth

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// SessionEvent is pushed to a connected client whenever its session state
// changes, including sign-out from another tab or device.
type SessionEvent struct {
	Event string    `json:"event"`
	Email string    `json:"email,omitempty"`
	At    time.Time `json:"at"`
}

// EventHub holds one websocket connection per user and fans session events
// out to it. A new connection for the same user replaces the old one.
type EventHub struct {
	connections map[int64]*websocket.Conn
	mutex       sync.RWMutex
}

func NewEventHub() *EventHub {
	return &EventHub{
		connections: make(map[int64]*websocket.Conn),
	}
}

func (h *EventHub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[userID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[userID] = conn
}

func (h *EventHub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[userID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, userID)
	}
}

// Publish sends the event to the user's connection if one is open.
// Returns false when the user has no live connection or the write failed.
func (h *EventHub) Publish(userID int64, event SessionEvent) bool {
	h.mutex.RLock()
	conn, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || conn == nil {
		return false
	}

	if err := conn.WriteJSON(event); err != nil {
		h.Unregister(userID)
		return false
	}

	return true
}

func (h *EventHub) IsConnected(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *EventHub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, userID)
	}
}
