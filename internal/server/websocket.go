package server

import (
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/events"
	"github.com/jeffmahoney/agama/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Events buffered per subscriber before it is dropped
	sendBuffer = 64
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans out events to every websocket subscriber.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Subscribers returns the number of connected subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends ev to every subscriber. Subscribers whose buffer is full
// are disconnected instead of blocking the caller.
func (h *Hub) Broadcast(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.Error(err))
		return
	}
	logging.LogEvent(h.logger, "sent", string(ev.Type), ev.Root, ev.Collection, ev.ResourceID)

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			h.logger.Warn("Dropping slow subscriber", zap.String("remote_addr", sub.conn.RemoteAddr().String()))
			h.removeLocked(sub)
		}
	}
}

// ServeWS upgrades the request and streams events until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("Event subscriber connected", zap.String("remote_addr", conn.RemoteAddr().String()))

	go h.writePump(sub)
	h.readPump(sub)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		h.removeLocked(sub)
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.send)
}

// readPump only consumes control frames; subscribers never send data.
func (h *Hub) readPump(sub *subscriber) {
	defer func() {
		h.remove(sub)
		_ = sub.conn.Close()
		h.logger.Info("Event subscriber disconnected", zap.String("remote_addr", sub.conn.RemoteAddr().String()))
	}()

	sub.conn.SetReadLimit(maxMessageSize)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case data, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
