package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	authTimeout    = 5 * time.Second
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AuthFunc validates a session token and returns the identity behind it.
type AuthFunc func(token string) (userID, role string, err error)

type client struct {
	id     string
	userID string
	role   string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans broadcast messages out to every connected supervision client.
// Clients authenticate with their session token in the first message;
// unauthenticated connections are dropped after a short deadline.
type Hub struct {
	logger *slog.Logger
	auth   AuthFunc

	mu         sync.RWMutex
	clients    map[string]*client
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

func NewHub(logger *slog.Logger, auth AuthFunc) *Hub {
	return &Hub{
		logger:     logger.With(slog.String("component", "ws_hub")),
		auth:       auth,
		clients:    make(map[string]*client),
		register:   make(chan *client, 10),
		unregister: make(chan *client, 10),
		broadcast:  make(chan []byte, 256),
	}
}

// Start runs the hub loop until the context is cancelled, then closes every
// connection so clients re-subscribe from a clean slate.
func (h *Hub) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("websocket hub stopped")
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			subscribersGauge.Inc()
			h.logger.Debug("client subscribed",
				slog.String("user_id", c.userID), slog.String("role", c.role))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
				subscribersGauge.Dec()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer, drop it.
					delete(h.clients, id)
					close(c.send)
					subscribersGauge.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		subscribersGauge.Dec()
	}
}

// Broadcast queues a message for every subscriber; when the hub is
// saturated the message is dropped (the next snapshot supersedes it).
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast dropped, channel full")
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and waits for the auth message. The client
// must send {"token": "..."} within the auth deadline.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	var authMsg struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&authMsg); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "auth timeout"))
		_ = conn.Close()
		return
	}

	userID, role, err := h.auth(authMsg.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		h.logger.Warn("websocket auth rejected", slog.Any("error", err))
		return
	}

	c := &client{
		id:     uuid.NewString(),
		userID: userID,
		role:   role,
		conn:   conn,
		send:   make(chan []byte, 64),
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.register <- c
	_ = conn.WriteJSON(map[string]string{"status": "subscribed"})

	go c.writePump()
	go c.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		// The feed is one-way; reads only keep the connection and the
		// pong handler alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
