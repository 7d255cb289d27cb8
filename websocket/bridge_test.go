package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emittedEvent struct {
	room  string
	event string
	data  interface{}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (f *fakeEmitter) Emit(room, event string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{room: room, event: event, data: data})
}

func (f *fakeEmitter) all() []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emittedEvent{}, f.events...)
}

// pipePublisher delivers published envelopes straight into another
// bridge's relay handler, standing in for the pub/sub channel.
type pipePublisher struct {
	peer *Bridge
}

func (p *pipePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.peer.HandleRelayed(payload)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return errors.New("link down")
}

func TestBridgeBroadcast(t *testing.T) {
	t.Run("reaches local and remote instances", func(t *testing.T) {
		localA := &fakeEmitter{}
		localB := &fakeEmitter{}

		bridgeB := NewBridge(localB, nil, "")
		bridgeA := NewBridge(localA, &pipePublisher{peer: bridgeB}, "")

		bridgeA.Broadcast(context.Background(), "folder:5", "folder:updated", map[string]interface{}{"x": 1})

		eventsA := localA.all()
		require.Len(t, eventsA, 1)
		assert.Equal(t, "folder:5", eventsA[0].room)
		assert.Equal(t, "folder:updated", eventsA[0].event)

		eventsB := localB.all()
		require.Len(t, eventsB, 1, "instance B emits to its own sockets")
		assert.Equal(t, "folder:5", eventsB[0].room)
		assert.Equal(t, "folder:updated", eventsB[0].event)

		payload, ok := eventsB[0].data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), payload["x"])
	})

	t.Run("skips its own relayed envelope", func(t *testing.T) {
		local := &fakeEmitter{}
		bridge := NewBridge(local, nil, "")

		data, err := json.Marshal(map[string]interface{}{
			"origin":  bridge.Origin(),
			"channel": "folder:5",
			"event":   "folder:updated",
			"payload": map[string]int{"x": 1},
		})
		require.NoError(t, err)

		bridge.HandleRelayed(data)
		assert.Empty(t, local.all(), "own envelope must not be emitted twice")
	})

	t.Run("publish failure still emits locally", func(t *testing.T) {
		local := &fakeEmitter{}
		bridge := NewBridge(local, failingPublisher{}, "")

		bridge.Broadcast(context.Background(), "precatorios", "precatorio:updated", map[string]string{"id": "9"})

		events := local.all()
		require.Len(t, events, 1)
		assert.Equal(t, "precatorio:updated", events[0].event)
	})

	t.Run("malformed envelope is dropped", func(t *testing.T) {
		local := &fakeEmitter{}
		bridge := NewBridge(local, nil, "")

		bridge.HandleRelayed([]byte("{not json"))
		bridge.HandleRelayed([]byte(`{"origin":"other","channel":"folder:5"`))

		assert.Empty(t, local.all())
	})

	t.Run("string payload is emitted as-is", func(t *testing.T) {
		local := &fakeEmitter{}
		bridge := NewBridge(local, nil, "")

		bridge.HandleRelayed([]byte(`{"origin":"other","channel":"folder:5","event":"folder:updated","payload":"{broken"}`))

		events := local.all()
		require.Len(t, events, 1)
		assert.Equal(t, "{broken", events[0].data)
	})

	t.Run("nil publisher keeps broadcasts local", func(t *testing.T) {
		local := &fakeEmitter{}
		bridge := NewBridge(local, nil, "")

		bridge.Broadcast(context.Background(), "process:3", "process:movement", nil)

		events := local.all()
		require.Len(t, events, 1)
		assert.Equal(t, "process:3", events[0].room)
	})
}

func TestBridgeDistinctOrigins(t *testing.T) {
	a := NewBridge(&fakeEmitter{}, nil, "")
	b := NewBridge(&fakeEmitter{}, nil, "")
	assert.NotEqual(t, a.Origin(), b.Origin())
}
