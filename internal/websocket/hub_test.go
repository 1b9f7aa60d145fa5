package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	client := NewClient(nil, userID)
	hub.Register(client)
	return client
}

func waitSubscribed(t *testing.T, client *Client, channel string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return client.IsSubscribed(channel)
	}, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestBroadcastReachesOnlySubscribers(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")
	hub.Subscribe(alice, "channel:user:alice")
	hub.Subscribe(bob, "channel:user:bob")
	waitSubscribed(t, alice, "channel:user:alice")
	waitSubscribed(t, bob, "channel:user:bob")

	hub.Broadcast("channel:user:alice", []byte("for alice"))

	req.Equal([]byte("for alice"), receive(t, alice))
	req.Empty(bob.Send)
}

func TestBroadcastFansOutToAllSubscribers(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")
	hub.Subscribe(alice, "channel:typing:7")
	hub.Subscribe(bob, "channel:typing:7")
	waitSubscribed(t, alice, "channel:typing:7")
	waitSubscribed(t, bob, "channel:typing:7")

	hub.Broadcast("channel:typing:7", []byte("typing"))

	req.Equal([]byte("typing"), receive(t, alice))
	req.Equal([]byte("typing"), receive(t, bob))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	alice := connect(t, hub, "alice")
	hub.Subscribe(alice, "channel:typing:7")
	waitSubscribed(t, alice, "channel:typing:7")

	hub.Unsubscribe(alice, "channel:typing:7")
	require.Eventually(t, func() bool {
		return !alice.IsSubscribed("channel:typing:7")
	}, time.Second, 5*time.Millisecond)

	hub.Broadcast("channel:typing:7", []byte("typing"))
	req.Empty(alice.Send)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	alice := connect(t, hub, "alice")
	hub.Subscribe(alice, "channel:user:alice")
	waitSubscribed(t, alice, "channel:user:alice")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(alice)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// A second unregister for the same client must not panic or double-close.
	hub.Unregister(alice)
	time.Sleep(20 * time.Millisecond)
	req.Zero(hub.ClientCount())

	// The channel map no longer routes to the gone client.
	hub.Broadcast("channel:user:alice", []byte("late"))
}

func TestSendMessageDropsWhenFull(t *testing.T) {
	client := NewClient(nil, "alice")
	for i := 0; i < cap(client.Send)+10; i++ {
		client.SendMessage([]byte("x"))
	}
	require.Len(t, client.Send, cap(client.Send))
}
