package remote

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/testeddoughnut/pithos/internal/player"
)

// streamClient is one websocket subscriber. Writes are serialized per
// connection; gorilla/websocket allows only one concurrent writer.
type streamClient struct {
	conn *websocket.Conn

	mu sync.Mutex
}

func (c *streamClient) send(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}

func (c *streamClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

// StreamHub fans host events out to websocket subscribers. Every subscriber
// receives the same events the bus adapter consumes, serialized as JSON.
type StreamHub struct {
	logger       *log.Logger
	pingInterval time.Duration

	mu      sync.Mutex
	clients map[*streamClient]struct{}

	removeListeners []func()
}

// NewStreamHub creates a hub with no subscribers.
func NewStreamHub(logger *log.Logger) *StreamHub {
	if logger == nil {
		logger = log.Default()
	}
	return &StreamHub{
		logger:       logger,
		pingInterval: 30 * time.Second,
		clients:      make(map[*streamClient]struct{}),
	}
}

// Attach subscribes the stream to host events.
func (h *StreamHub) Attach(hub *player.Hub) {
	h.removeListeners = []func(){
		hub.OnSongChanged(func(song *player.Song) {
			h.broadcast(map[string]any{"type": "song_changed", "song": song})
		}),
		hub.OnPlayStateChanged(func(playing bool) {
			h.broadcast(map[string]any{"type": "play_state", "playing": playing})
		}),
		hub.OnVolumeChanged(func(volume float64) {
			h.broadcast(map[string]any{"type": "volume", "volume": volume})
		}),
		hub.OnBufferingFinished(func(posNanos int64) {
			h.broadcast(map[string]any{"type": "buffering_finished", "position_micros": posNanos / 1000})
		}),
	}
}

// Add registers a new subscriber connection and services it until it drops.
func (h *StreamHub) Add(conn *websocket.Conn) {
	client := &streamClient{conn: conn}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Printf("REMOTE: event subscriber connected (%d active)", count)

	go h.pingLoop(client)
	go h.readLoop(client)
}

// Close detaches from host events and drops every subscriber.
func (h *StreamHub) Close() {
	for _, remove := range h.removeListeners {
		remove()
	}
	h.removeListeners = nil

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.conn.Close()
	}
	h.clients = make(map[*streamClient]struct{})
}

func (h *StreamHub) broadcast(payload map[string]any) {
	h.mu.Lock()
	clients := make([]*streamClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.send(payload); err != nil {
			h.remove(client)
		}
	}
}

// pingLoop keeps the connection alive through idle proxies.
func (h *StreamHub) pingLoop(client *streamClient) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !h.has(client) {
			return
		}
		if err := client.ping(); err != nil {
			h.remove(client)
			return
		}
	}
}

// readLoop drains the connection; subscribers send nothing meaningful, but
// reading is what surfaces the close handshake.
func (h *StreamHub) readLoop(client *streamClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			h.remove(client)
			return
		}
	}
}

func (h *StreamHub) has(client *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[client]
	return ok
}

func (h *StreamHub) remove(client *streamClient) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		client.conn.Close()
		h.logger.Printf("REMOTE: event subscriber disconnected (%d active)", count)
	}
}
