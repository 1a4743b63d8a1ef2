package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/anjiri1684/agriconnect/services"
	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

type delivery struct {
	userID uuid.UUID
	event  services.Event
}

// Hub fans booking events out to every open connection of a user.
// All writes happen on the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	disconnect chan uuid.UUID
	done       chan struct{}

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 256),
		disconnect: make(chan uuid.UUID, 16),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled. A hub runs at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "user_id", client.UserID)
		case client := <-h.unregister:
			h.remove(client)
			h.logger.Debug("websocket client unregistered", "user_id", client.UserID)
		case userID := <-h.disconnect:
			for _, client := range h.connections(userID) {
				_ = client.Conn.Close()
				h.remove(client)
			}
		case d := <-h.broadcast:
			for _, client := range h.connections(d.userID) {
				if err := client.Conn.WriteJSON(d.event); err != nil {
					h.logger.Warn("websocket write failed", "user_id", d.userID, "error", err)
					_ = client.Conn.Close()
					h.remove(client)
				}
			}
		}
	}
}

// Register adds c to the hub. It reports false once Run has returned.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues event for userID. Events are dropped when the queue is full.
func (h *Hub) Publish(userID uuid.UUID, event services.Event) {
	select {
	case h.broadcast <- delivery{userID: userID, event: event}:
	default:
		h.logger.Warn("websocket queue full, dropping event", "user_id", userID, "type", event.Type)
	}
}

// Disconnect closes every connection of userID, used on sign out.
func (h *Hub) Disconnect(userID uuid.UUID) {
	select {
	case h.disconnect <- userID:
	default:
		h.logger.Warn("websocket disconnect queue full", "user_id", userID)
	}
}

func (h *Hub) Online(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) connections(userID uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			_ = c.Conn.Close()
		}
		delete(h.clients, userID)
	}
}
