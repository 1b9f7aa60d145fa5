package websocket

import (
	"context"

	"team-chat/internal/events"
)

// RedisBridge forwards everything published on the redis event channels to
// the hub, which routes it to subscribed connections.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{"channel:*"}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
