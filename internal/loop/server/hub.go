// Package server tracks the wallpaper sessions served by one process so they
// can be counted and told about a shutdown.
package server

import (
	"sync"
	"time"

	"github.com/tomz197/termwall/internal/loop/config"
)

// ClientHandle represents a session registered with the hub.
type ClientHandle struct {
	ID       int
	Username string           // Display name, truncated
	Joined   time.Time        // Registration time
	EventsCh chan ClientEvent // Events sent to the session; closed on unregister
}

// ClientEvent represents an event sent from the hub to a session.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// Hub is the registry of live sessions. Safe for concurrent use.
type Hub struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
}

// RegisterClient adds a session and returns its handle.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle
	return handle
}

// UnregisterClient removes a session and closes its events channel.
// Unknown IDs are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if handle, ok := h.clients[clientID]; ok {
		close(handle.EventsCh)
		delete(h.clients, clientID)
	}
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies every session and waits until all of them unregistered
// or the timeout elapsed.
func (h *Hub) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
