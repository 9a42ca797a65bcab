// Package notify implements the transactional email pipeline: a Notifier
// interface with a queued (Kafka) implementation, a direct (SES)
// implementation, and a fallback decorator that degrades from queued to
// direct delivery. Notification failures are side effects only; they are
// logged and must never block the database write that triggered them.
package notify

import (
	"context"
	"errors"
)

// Kind identifies a notification template
type Kind string

const (
	// KindReservationConfirmed is the customer email sent when a
	// reservation transitions to confirmed.
	KindReservationConfirmed Kind = "reservation_confirmed"
	// KindReservationCanceled is the customer email sent when a
	// reservation transitions to canceled.
	KindReservationCanceled Kind = "reservation_canceled"
	// KindNewReservationAdmin is the email sent to the business owner
	// when a new reservation is created.
	KindNewReservationAdmin Kind = "new_reservation_admin"
)

// ErrUnknownKind is returned when no template exists for a notification kind
var ErrUnknownKind = errors.New("unknown notification kind")

// Job is a single email to deliver. Data carries the template context;
// FromAddress selects the tenant's configured sender and falls back to the
// system default when empty.
type Job struct {
	Kind        Kind              `json:"kind"`
	Recipient   string            `json:"recipient"`
	FromAddress string            `json:"from_address,omitempty"`
	Data        map[string]string `json:"data"`
}

// Notifier delivers email jobs
type Notifier interface {
	Send(ctx context.Context, job Job) error
}
