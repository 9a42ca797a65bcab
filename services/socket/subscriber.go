package main

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// Subscriber bridges Redis pub/sub into the websocket hub. The API and
// mailer services publish envelopes; this fans them out to the matching
// client group.
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a Redis subscriber feeding the hub
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Run consumes pub/sub messages until the context is canceled
func (s *Subscriber) Run(ctx context.Context) {
	sub := utils.Subscribe(broadcast.DashboardChannel, broadcast.UserChannel("*"))
	defer sub.Close()

	logrus.Info("Subscribed to dashboard and notification channels")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Redis subscriber shutting down")
			return
		case msg, ok := <-ch:
			if !ok {
				logrus.Error("Redis subscription closed unexpectedly")
				return
			}

			data := []byte(msg.Payload)
			if msg.Channel == broadcast.DashboardChannel {
				s.hub.BroadcastDashboard(data)
				continue
			}

			userID := strings.TrimPrefix(msg.Channel, broadcast.UserChannel(""))
			if userID == "" || userID == msg.Channel {
				logrus.Warnf("Ignoring message on unexpected channel %s", msg.Channel)
				continue
			}
			s.hub.NotifyUser(userID, data)
		}
	}
}
