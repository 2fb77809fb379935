// Package api exposes the session over WebSocket: clients dispatch intents
// and receive state snapshots and notices. The engine is authoritative; the
// browser only renders.
package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is the JSON envelope for all outbound traffic.
type Message struct {
	// Type is the event type: "snapshot", "notice", or "error".
	Type string `json:"type"`
	// Payload is the event data.
	Payload any `json:"payload"`
}

// Client represents one connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected clients and broadcasts session updates
// to them. All clients view the same single-player session.
type Hub struct {
	logger *zap.Logger

	// onIntent is invoked for every raw intent frame a client sends. The
	// returned reply, if non-nil, goes back to that client only.
	onIntent func(raw []byte) *Message

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub that dispatches client frames through onIntent.
//
// Precondition: logger and onIntent must be non-nil.
func NewHub(logger *zap.Logger, onIntent func(raw []byte) *Message) *Hub {
	return &Hub{
		logger:     logger,
		onIntent:   onIntent,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub event loop. It blocks until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client connected", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.logger.Debug("client disconnected", zap.Int("clients", len(h.clients)))

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer; drop the connection rather
					// than block every other client.
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Broadcast queues msg for delivery to every connected client. Never blocks;
// the oldest queued broadcast is dropped under backpressure.
func (h *Hub) Broadcast(msg []byte) {
	for {
		select {
		case h.broadcast <- msg:
			return
		default:
			select {
			case <-h.broadcast:
			default:
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The engine serves a same-origin browser game; cross-origin access is
	// harmless because there is no account boundary to protect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket connection and starts the
// client pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump forwards intent frames from the connection to the dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if reply := c.hub.onIntent(raw); reply != nil {
			c.reply(*reply)
		}
	}
}

// reply sends a message to this client only. Drops under backpressure.
func (c *Client) reply(msg Message) {
	data, err := encodeMessage(msg)
	if err != nil {
		c.hub.logger.Warn("encoding reply failed", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump writes queued messages to the connection until send is closed.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
