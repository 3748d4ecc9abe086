package handler

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Hub fans staff chat messages out to every connected websocket.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*hubClient]struct{}
	connections prometheus.Gauge
}

type hubClient struct {
	id        string
	accountID int64
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

func NewHub(connections prometheus.Gauge) *Hub {
	return &Hub{
		clients:     make(map[*hubClient]struct{}),
		connections: connections,
	}
}

// Register adds conn to the hub and starts its writer.
func (h *Hub) Register(conn *websocket.Conn, accountID int64) *hubClient {
	c := &hubClient{
		id:        uuid.NewString(),
		accountID: accountID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		hub:       h,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.connections.Inc()

	slog.Info("staff chat connected", "client", c.id, "accountID", accountID)
	go c.writePump()
	return c
}

func (h *Hub) Unregister(c *hubClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		h.connections.Dec()
		c.closeOnce.Do(func() { close(c.send) })
		slog.Info("staff chat disconnected", "client", c.id, "accountID", c.accountID)
	}
}

// Broadcast queues v for every client. Clients that cannot keep up are dropped.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode staff chat broadcast", "error", err)
		return
	}

	var slow []*hubClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.Unregister(c)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and keeps the read deadline fresh; it returns
// once the connection fails or closes.
func (c *hubClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
