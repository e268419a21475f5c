package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/pkg/scan"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries session snapshots between instances.
const ClusterChannel = "scan_session_events"

// KeyHandler applies a keystroke received from a scanner screen. It returns
// the scan result when the keystroke completed a barcode.
type KeyHandler func(ctx context.Context, sessionID string, ev scan.KeyEvent) (*dto.ScanResultResponse, error)

// Message is the envelope of everything written to a scanner screen.
type Message struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	MessageSession = "session"
	MessageScan    = "scan"
	MessageError   = "error"
)

type clusterPayload struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

type Hub struct {
	// Connected screens per scan session. A session may be open on more than
	// one screen.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out; nil runs single-instance.
	rdb    *redis.Client
	origin string

	onKey  KeyHandler
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, onKey KeyHandler, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		onKey:      onKey,
		logger:     log,
	}
}

// SetKeyHandler replaces the keystroke callback. Call before Run.
func (h *Hub) SetKeyHandler(onKey KeyHandler) {
	h.onKey = onKey
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Scanner connected", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Scanner disconnected", map[string]interface{}{"session_id": client.SessionID})
		}
	}
}

// ClientCount reports the number of screens connected to sessionID on this
// instance.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// NotifySession pushes a session snapshot to every screen showing it, here
// and on other instances.
func (h *Hub) NotifySession(sessionID string, session dto.ScanSessionResponse) {
	data, err := json.Marshal(Message{Type: MessageSession, Data: session})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode session snapshot", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{Origin: h.origin, SessionID: sessionID, Message: data})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish snapshot to Redis", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver writes data to the local screens of sessionID. Screens whose
// buffer is full are dropped.
func (h *Hub) deliver(sessionID string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Scanner send buffer full, disconnecting", map[string]interface{}{"session_id": sessionID})
		go func(c *Client) { h.unregister <- c }(client)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.origin {
			continue
		}
		h.deliver(payload.SessionID, payload.Message)
	}
}
