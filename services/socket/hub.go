package main

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendQueueSize  = 256
)

// Client is one websocket connection. Outbound messages go through a
// buffered send queue consumed by a single writer goroutine; clients that
// cannot keep up are dropped rather than allowed to block the hub.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	userID    string
	dashboard bool
}

// Hub tracks connected clients by group: one global dashboard group and
// one notification group per user.
type Hub struct {
	mu        sync.RWMutex
	dashboard map[*Client]struct{}
	users     map[string]map[*Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		dashboard: make(map[*Client]struct{}),
		users:     make(map[string]map[*Client]struct{}),
	}
}

// Register adds a client to its group
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.dashboard {
		h.dashboard[c] = struct{}{}
		return
	}
	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[*Client]struct{})
	}
	h.users[c.userID][c] = struct{}{}
}

// Unregister removes a client and closes its send queue
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if c.dashboard {
		if _, ok := h.dashboard[c]; !ok {
			return
		}
		delete(h.dashboard, c)
	} else {
		clients := h.users[c.userID]
		if _, ok := clients[c]; !ok {
			return
		}
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.users, c.userID)
		}
	}
	close(c.send)
}

// BroadcastDashboard sends a message to every dashboard client
func (h *Hub) BroadcastDashboard(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.dashboard {
		h.sendLocked(c, data)
	}
}

// NotifyUser sends a message to every connection of one user
func (h *Hub) NotifyUser(userID string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.users[userID] {
		h.sendLocked(c, data)
	}
}

// sendLocked enqueues without blocking. A full queue means the client has
// stalled; it gets dropped so one slow consumer cannot back up the hub.
func (h *Hub) sendLocked(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		logrus.Warnf("Dropping slow websocket client (user %s)", c.userID)
		h.removeLocked(c)
	}
}

// ClientCounts returns connected client totals for the stats endpoint
func (h *Hub) ClientCounts() (dashboard int, notification int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dashboard = len(h.dashboard)
	for _, clients := range h.users {
		notification += len(clients)
	}
	return dashboard, notification
}

// readPump discards inbound frames and keeps the read deadline fresh from
// pongs. The feed is one-way; clients only listen.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Debugf("Websocket read error: %v", err)
			}
			return
		}
	}
}

// writePump drains the send queue and pings on an interval
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
