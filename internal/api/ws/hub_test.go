package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	assert.Zero(t, hub.ClientCount())

	c1 := NewClient(nil, 1)
	c2 := NewClient(nil, 2)

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount())

	// Double unregister is a no-op.
	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	c1 := NewClient(nil, 1)
	c2 := NewClient(nil, 2)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast("analytics_notification", map[string]interface{}{"message": "hello"})

	for _, c := range []*Client{c1, c2} {
		select {
		case frame := <-c.send:
			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal(frame, &decoded))
			assert.Equal(t, "analytics_notification", decoded["type"])
		default:
			t.Fatalf("client %d received nothing", c.userID)
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := NewClient(nil, 1)
	hub.Register(slow)

	// Fill the buffer without draining it.
	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast("analytics_update", map[string]interface{}{"n": i})
	}

	assert.Zero(t, hub.ClientCount(), "client with a full buffer gets dropped")
}

func TestSendAfterDropDoesNotPanic(t *testing.T) {
	hub := NewHub()
	slow := NewClient(nil, 1)
	hub.Register(slow)

	// Fill the buffer, then let a broadcast drop and close the client.
	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast("analytics_update", map[string]interface{}{"n": i})
	}
	assert.Zero(t, hub.ClientCount())

	// The read-loop goroutine may still hold the client and try to write.
	assert.NotPanics(t, func() {
		assert.False(t, slow.Send([]byte("late frame")))
	})
}

func TestClientSendReportsBackpressure(t *testing.T) {
	c := NewClient(nil, 1)

	for i := 0; i < sendBufferSize; i++ {
		assert.True(t, c.Send([]byte("x")))
	}
	assert.False(t, c.Send([]byte("overflow")))
}
