package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 5 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 25 * time.Second
	clientQueue = 64
)

type hubClient struct {
	conn    *websocket.Conn
	send    chan []byte
	guildID string
}

// Hub streams bus events to websocket clients. A client may filter by guild
// with ?guildId=. Slow clients are disconnected rather than blocking Publish.
type Hub struct {
	mu       sync.Mutex
	clients  map[*hubClient]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*hubClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish implements bus.Publisher
func (h *Hub) Publish(e bus.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.Debug(fmt.Sprintf("Evento no serializable: %v", err), "WebSocket")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.guildID != "" && c.guildID != e.GuildID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.removeLocked(c)
		}
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *hubClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *hubClient) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

// Handle upgrades the request and serves events until the client leaves
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Upgrade websocket fallido: %v", err), "WebSocket")
		return
	}

	client := &hubClient{
		conn:    conn,
		send:    make(chan []byte, clientQueue),
		guildID: c.Query("guildId"),
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client)
}

// readPump discards client messages and notices disconnects
func (h *Hub) readPump(c *hubClient) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
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

func (h *Hub) writePump(c *hubClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
