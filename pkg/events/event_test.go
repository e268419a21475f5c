package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	in := BaseEvent{
		Type:       "SCAN_SUBMISSION_SUCCEEDED",
		Data:       map[string]interface{}{"item_count": float64(23)},
		OccurredAt: at,
	}

	raw, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, in.Type, out.EventType())
	assert.True(t, at.Equal(out.Timestamp()))
	assert.Equal(t, float64(23), out.Payload()["item_count"])
}
