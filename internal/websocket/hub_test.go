package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/pkg/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, onKey KeyHandler) *Hub {
	t.Helper()
	hub := NewHub(nil, onKey, logger.NewNop())
	go hub.Run()
	return hub
}

func connect(t *testing.T, hub *Hub, sessionID string, buffer int) *Client {
	t.Helper()
	c := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, buffer)}
	before := hub.ClientCount(sessionID)
	hub.register <- c
	require.Eventually(t, func() bool { return hub.ClientCount(sessionID) == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.Send:
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestNotifySessionTargetsSession(t *testing.T) {
	hub := startHub(t, nil)
	a := connect(t, hub, "s1", 4)
	b := connect(t, hub, "s1", 4)
	other := connect(t, hub, "s2", 4)

	hub.NotifySession("s1", dto.ScanSessionResponse{Id: "s1", State: "IDLE"})

	for _, c := range []*Client{a, b} {
		m := receive(t, c)
		assert.Equal(t, MessageSession, m.Type)
		data := m.Data.(map[string]interface{})
		assert.Equal(t, "s1", data["id"])
	}
	assert.Empty(t, other.Send)
}

func TestSlowScannerIsDisconnected(t *testing.T) {
	hub := startHub(t, nil)
	c := connect(t, hub, "s1", 1)

	hub.NotifySession("s1", dto.ScanSessionResponse{Id: "s1"})
	hub.NotifySession("s1", dto.ScanSessionResponse{Id: "s1"})

	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 0 }, time.Second, 5*time.Millisecond)
	<-c.Send
	_, open := <-c.Send
	assert.False(t, open, "send channel is closed on unregister")
}

func TestClientForwardsKeys(t *testing.T) {
	var got []scan.KeyEvent
	hub := startHub(t, func(_ context.Context, sessionID string, ev scan.KeyEvent) (*dto.ScanResultResponse, error) {
		got = append(got, ev)
		if ev.Key == "Enter" {
			return &dto.ScanResultResponse{Kind: "item", Token: "B1", ItemId: "rec1"}, nil
		}
		return nil, nil
	})
	c := connect(t, hub, "s1", 4)

	c.handle([]byte(`{"key":"B","at":"2024-05-01T08:00:00Z"}`))
	c.handle([]byte(`{"key":"Enter"}`))

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), got[0].At)
	assert.False(t, got[1].At.IsZero(), "missing timestamps default to now")

	m := receive(t, c)
	assert.Equal(t, MessageScan, m.Type)
	assert.Equal(t, "rec1", m.Data.(map[string]interface{})["item_id"])

	c.handle([]byte(`not json`))
	m = receive(t, c)
	assert.Equal(t, MessageError, m.Type)
}
