package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string, dashboard bool) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan []byte, sendQueueSize),
		userID:    userID,
		dashboard: dashboard,
	}
}

func TestHubBroadcastDashboard(t *testing.T) {
	hub := NewHub()
	admin1 := newTestClient(hub, "admin-1", true)
	admin2 := newTestClient(hub, "admin-2", true)
	viewer := newTestClient(hub, "user-1", false)
	hub.Register(admin1)
	hub.Register(admin2)
	hub.Register(viewer)

	hub.BroadcastDashboard([]byte(`{"type":"reservation_created"}`))

	assert.Len(t, admin1.send, 1)
	assert.Len(t, admin2.send, 1)
	assert.Len(t, viewer.send, 0)
}

func TestHubNotifyUserTargetsAllConnectionsOfOneUser(t *testing.T) {
	hub := NewHub()
	phone := newTestClient(hub, "user-1", false)
	laptop := newTestClient(hub, "user-1", false)
	other := newTestClient(hub, "user-2", false)
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)

	hub.NotifyUser("user-1", []byte(`{"type":"notification"}`))

	assert.Len(t, phone.send, 1)
	assert.Len(t, laptop.send, 1)
	assert.Len(t, other.send, 0)
}

func TestHubUnregisterClosesSendQueue(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "user-1", false)
	hub.Register(client)

	hub.Unregister(client)

	_, open := <-client.send
	assert.False(t, open)

	// A second unregister of the same client must be a no-op
	hub.Unregister(client)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "admin-1", true)
	slow.send = make(chan []byte) // unbuffered with no reader
	hub.Register(slow)

	hub.BroadcastDashboard([]byte("update"))

	dashboard, _ := hub.ClientCounts()
	assert.Equal(t, 0, dashboard)
}

func TestHubClientCounts(t *testing.T) {
	hub := NewHub()
	hub.Register(newTestClient(hub, "admin-1", true))
	hub.Register(newTestClient(hub, "user-1", false))
	hub.Register(newTestClient(hub, "user-1", false))

	dashboard, notification := hub.ClientCounts()
	require.Equal(t, 1, dashboard)
	require.Equal(t, 2, notification)
}
