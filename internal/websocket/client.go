package websocket

import (
	"context"
	"encoding/json"
	"time"

	"warehouse-scan-be/pkg/scan"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// keyMessage is what a scanner screen sends for every keystroke. At is
// optional; the receive time is used when it is missing.
type keyMessage struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// SessionID is the scan session shown on this screen.
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte
}

// readPump forwards keystrokes from the screen to the session.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			break
		}
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg keyMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Key == "" {
		c.reply(Message{Type: MessageError, Message: "expected {\"key\": ..., \"at\": ...}"})
		return
	}
	if msg.At.IsZero() {
		msg.At = time.Now()
	}
	if c.Hub.onKey == nil {
		return
	}

	res, err := c.Hub.onKey(context.Background(), c.SessionID, scan.KeyEvent{Key: msg.Key, At: msg.At})
	switch {
	case err != nil:
		c.reply(Message{Type: MessageError, Message: err.Error()})
	case res != nil:
		c.reply(Message{Type: MessageScan, Data: res})
	}
}

// reply queues a message for this screen only.
func (c *Client) reply(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	for _, registered := range c.Hub.clients[c.SessionID] {
		if registered != c {
			continue
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame; screens parse each frame on its own.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
