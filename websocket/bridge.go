package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultBridgeChannel is the shared pub/sub channel all instances relay on
const DefaultBridgeChannel = "jusdesk:realtime"

// LocalEmitter delivers an event to locally-connected sockets in a room
type LocalEmitter interface {
	Emit(room, event string, data interface{})
}

// Publisher pushes a serialized envelope onto the shared pub/sub channel
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// envelope is the relay format between server instances
type envelope struct {
	Origin  string          `json:"origin"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Bridge fans an event out to local sockets and relays it to the other
// server instances over pub/sub. Room membership is process-local, so the
// relay is the only cross-process signal. Delivery is fire-and-forget: a
// message published while the link is down is logged and lost.
type Bridge struct {
	origin    string
	local     LocalEmitter
	publisher Publisher
	channel   string
}

// NewBridge creates a bridge around a local emitter. publisher may be nil
// when no pub/sub backend is available; broadcasts then stay local.
func NewBridge(local LocalEmitter, publisher Publisher, channel string) *Bridge {
	if channel == "" {
		channel = DefaultBridgeChannel
	}
	return &Bridge{
		origin:    uuid.NewString(),
		local:     local,
		publisher: publisher,
		channel:   channel,
	}
}

// Origin returns the bridge's instance id, used to suppress echoes of its
// own relayed envelopes.
func (b *Bridge) Origin() string {
	return b.origin
}

// Broadcast emits the event to local sockets in the room and publishes an
// envelope for the other instances.
func (b *Bridge) Broadcast(ctx context.Context, room, event string, payload interface{}) {
	b.local.Emit(room, event, payload)

	if b.publisher == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing broadcast payload for %s: %v", event, err)
		return
	}

	data, err := json.Marshal(envelope{
		Origin:  b.origin,
		Channel: room,
		Event:   event,
		Payload: raw,
	})
	if err != nil {
		log.Printf("Error serializing broadcast envelope for %s: %v", event, err)
		return
	}

	if err := b.publisher.Publish(ctx, b.channel, data); err != nil {
		// Not retried: no delivery guarantee past what the relay provides
		log.Printf("Error publishing broadcast for %s: %v", event, err)
	}
}

// HandleRelayed processes one envelope received from the pub/sub channel.
// Malformed envelopes and the bridge's own envelopes are dropped.
func (b *Bridge) HandleRelayed(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("Error decoding relayed broadcast: %v", err)
		return
	}

	if env.Origin == b.origin {
		return
	}

	var payload interface{}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			log.Printf("Error decoding relayed payload for %s: %v", env.Event, err)
			return
		}
	}

	b.local.Emit(env.Channel, env.Event, payload)
}

// RedisPublisher adapts a redis client to the Publisher interface
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// RunRedisSubscriber consumes relayed envelopes from Redis until the
// context is cancelled. Decode failures never stop the loop.
func RunRedisSubscriber(ctx context.Context, rdb *redis.Client, bridge *Bridge) {
	pubsub := rdb.Subscribe(ctx, bridge.channel)
	defer pubsub.Close()

	log.Printf("Subscribed to broadcast relay channel %s", bridge.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Println("Broadcast relay subscription closed")
				return
			}
			bridge.HandleRelayed([]byte(msg.Payload))
		}
	}
}
