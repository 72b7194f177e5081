package preview

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sys27/garden/internal/logfields"
)

// ReloadMessage tells connected pages to reload.
const ReloadMessage = "reload"

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// ReloadHub manages websocket clients waiting for rebuild notifications.
type ReloadHub struct {
	mu       sync.Mutex
	nextID   int
	clients  map[int]*reloadClient
	closed   bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type reloadClient struct {
	id   int
	conn *websocket.Conn
	ch   chan string
	done chan struct{}
}

// NewReloadHub creates an empty hub.
func NewReloadHub(logger *slog.Logger) *ReloadHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadHub{
		clients: map[int]*reloadClient{},
		logger:  logger,
		upgrader: websocket.Upgrader{
			// The preview server only listens for the local author.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the socket until either side closes.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Live reload upgrade failed", logfields.Error(err))
		return
	}

	client := &reloadClient{conn: conn, ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	h.mu.Unlock()

	go h.readLoop(client)
	h.writeLoop(client)
}

// readLoop discards client messages and notices disconnects.
func (h *ReloadHub) readLoop(c *reloadClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Live reload client error", logfields.Error(err))
			}
			h.removeClient(c.id)
			return
		}
	}
}

func (h *ReloadHub) writeLoop(c *reloadClient) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case msg := <-c.ch:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				h.removeClient(c.id)
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.removeClient(c.id)
				return
			}
		}
	}
}

func (h *ReloadHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Clients returns the number of connected clients.
func (h *ReloadHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients whose buffers are full are dropped.
func (h *ReloadHub) Broadcast(msg string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	snapshot := make([]*reloadClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- msg:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	h.logger.Debug("Live reload broadcast", "message", msg, "clients", len(snapshot), "dropped", dropped)
}

// Shutdown disconnects every client and rejects new ones.
func (h *ReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*reloadClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
}
