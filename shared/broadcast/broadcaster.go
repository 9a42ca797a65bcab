// Package broadcast publishes dashboard and per-user notification events
// over Redis pub/sub. The socket service subscribes and fans messages out
// to connected websocket clients. Publishing is fire-and-forget: it never
// blocks or fails the request that triggered it.
package broadcast

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

const (
	// DashboardChannel carries business/reservation mutation events for
	// all connected admin dashboards.
	DashboardChannel = "dashboard_updates"
	// userChannelPrefix namespaces per-user notification channels
	userChannelPrefix = "notifications:"
)

// Envelope is the JSON message delivered to websocket clients
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher publishes events to named groups
type Publisher interface {
	Dashboard(eventType string, payload interface{})
	Notify(userID string, payload interface{})
}

// UserChannel returns the pub/sub channel name for a user's notifications
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// Broadcaster publishes envelopes over Redis pub/sub
type Broadcaster struct{}

// NewBroadcaster creates a Redis-backed broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Dashboard publishes an event to the global admin-dashboard group
func (b *Broadcaster) Dashboard(eventType string, payload interface{}) {
	b.publish(DashboardChannel, eventType, payload)
}

// Notify publishes an event to a single user's notification group
func (b *Broadcaster) Notify(userID string, payload interface{}) {
	b.publish(UserChannel(userID), "notification", payload)
}

// publish marshals the envelope and sends it asynchronously. Failures are
// logged and dropped; a broken pub/sub layer must not affect request
// handling.
func (b *Broadcaster) publish(channel, eventType string, payload interface{}) {
	envelope := Envelope{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		logrus.Errorf("Failed to marshal broadcast envelope for %s: %v", channel, err)
		return
	}

	go func() {
		if err := utils.Publish(channel, data); err != nil {
			logrus.Errorf("Failed to publish %s event to %s: %v", eventType, channel, err)
		}
	}()
}
