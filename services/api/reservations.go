package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
)

var (
	// ErrInvalidWindow is returned when a reservation window is malformed
	ErrInvalidWindow = errors.New("end time must be after start time")
	// ErrMissingContact is returned when required customer fields are absent
	ErrMissingContact = errors.New("customer name and email are required")
	// ErrInvalidTransition is returned for an illegal status change
	ErrInvalidTransition = errors.New("illegal status transition")
)

// ReservationService owns the reservation lifecycle. Side effects (email
// dispatch, dashboard broadcast) are explicit steps of Create and
// UpdateStatus rather than implicit save hooks, so they are visible at the
// call site and trivial to fake in tests.
type ReservationService struct {
	db        *gorm.DB
	notifier  notify.Notifier
	publisher broadcast.Publisher
}

// NewReservationService creates a reservation service
func NewReservationService(db *gorm.DB, notifier notify.Notifier, publisher broadcast.Publisher) *ReservationService {
	return &ReservationService{db: db, notifier: notifier, publisher: publisher}
}

// CreateReservationInput carries the fields a booking provides
type CreateReservationInput struct {
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	CustomerPhone string    `json:"customer_phone"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Notes         string    `json:"notes"`
}

// Create validates and persists a new pending reservation for the given
// business, then notifies the business owner and broadcasts the creation.
// Notification and broadcast failures never fail the booking.
func (s *ReservationService) Create(ctx context.Context, business *models.Business, in CreateReservationInput) (*models.Reservation, error) {
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, ErrMissingContact
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, ErrInvalidWindow
	}

	reservation := models.Reservation{
		ID:            uuid.New(),
		BusinessID:    business.ID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone: in.CustomerPhone,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        models.StatusPending,
		Notes:         in.Notes,
	}

	if err := s.db.WithContext(ctx).Create(&reservation).Error; err != nil {
		return nil, err
	}

	s.emit(ctx, adminNewJob(business, &reservation))
	s.publisher.Dashboard("reservation_created", map[string]interface{}{
		"reservation":   reservation,
		"business_name": business.Name,
		"message":       "New reservation for " + business.Name,
	})

	return &reservation, nil
}

// UpdateStatus transitions a reservation to newStatus. The old status is
// read and the new one written inside a single transaction with the row
// locked, so concurrent updates cannot compute stale transition diffs.
// tenant scopes the lookup; a nil tenant (super admin) looks up by ID alone.
func (s *ReservationService) UpdateStatus(ctx context.Context, tenant *models.Business, id uuid.UUID, newStatus models.ReservationStatus) (*models.Reservation, error) {
	if !models.ValidStatus(newStatus) {
		return nil, ErrInvalidTransition
	}

	var reservation models.Reservation
	var business models.Business
	var oldStatus models.ReservationStatus

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
		if tenant != nil {
			query = query.Where("business_id = ?", tenant.ID)
		}
		if err := query.First(&reservation).Error; err != nil {
			return err
		}

		oldStatus = reservation.Status
		if oldStatus == newStatus {
			return nil
		}
		if !allowedTransition(oldStatus, newStatus) {
			return ErrInvalidTransition
		}

		if err := tx.First(&business, "id = ?", reservation.BusinessID).Error; err != nil {
			return err
		}

		reservation.Status = newStatus
		return tx.Model(&reservation).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if oldStatus == newStatus {
		return &reservation, nil
	}

	if kind, ok := transitionEmail(oldStatus, newStatus); ok {
		s.emit(ctx, customerJob(kind, &business, &reservation))
	}

	s.publisher.Dashboard("reservation_updated", map[string]interface{}{
		"reservation":   reservation,
		"business_name": business.Name,
		"message":       "Reservation " + string(newStatus) + " at " + business.Name,
	})

	return &reservation, nil
}

// allowedTransition encodes the reservation state machine:
// pending -> confirmed, pending -> canceled, confirmed -> canceled,
// and any state -> completed.
func allowedTransition(from, to models.ReservationStatus) bool {
	if to == models.StatusCompleted {
		return true
	}
	switch from {
	case models.StatusPending:
		return to == models.StatusConfirmed || to == models.StatusCanceled
	case models.StatusConfirmed:
		return to == models.StatusCanceled
	}
	return false
}

// transitionEmail maps a status transition to the customer email it
// triggers, if any. Transitions to completed and no-op saves send nothing.
func transitionEmail(from, to models.ReservationStatus) (notify.Kind, bool) {
	if from == to {
		return "", false
	}
	switch to {
	case models.StatusConfirmed:
		return notify.KindReservationConfirmed, true
	case models.StatusCanceled:
		return notify.KindReservationCanceled, true
	}
	return "", false
}

// adminNewJob builds the business-owner notification for a new booking
func adminNewJob(business *models.Business, r *models.Reservation) notify.Job {
	date, clock := notify.FormatAppointment(r.StartTime, business.Timezone)
	return notify.Job{
		Kind:      notify.KindNewReservationAdmin,
		Recipient: business.AdminEmail(),
		Data: map[string]string{
			"customer_name":  r.CustomerName,
			"customer_email": r.CustomerEmail,
			"customer_phone": r.CustomerPhone,
			"business_name":  business.Name,
			"brand_color":    business.PrimaryColor,
			"date":           date,
			"time":           clock,
		},
	}
}

// customerJob builds the customer-facing confirmed/canceled email
func customerJob(kind notify.Kind, business *models.Business, r *models.Reservation) notify.Job {
	date, clock := notify.FormatAppointment(r.StartTime, business.Timezone)
	return notify.Job{
		Kind:        kind,
		Recipient:   r.CustomerEmail,
		FromAddress: business.EmailFromAddress,
		Data: map[string]string{
			"customer_name": r.CustomerName,
			"business_name": business.Name,
			"brand_color":   business.PrimaryColor,
			"date":          date,
			"time":          clock,
		},
	}
}

// emit dispatches an email job as an isolated side effect. When both the
// queued and direct paths fail the job is persisted for the mailer's retry
// pass; the triggering write is never rolled back or blocked.
func (s *ReservationService) emit(ctx context.Context, job notify.Job) {
	if err := s.notifier.Send(ctx, job); err != nil {
		logrus.Errorf("Notification delivery failed for %s (%s): %v", job.Recipient, job.Kind, err)
		s.recordFailedEmail(ctx, job, err)
	}
}

func (s *ReservationService) recordFailedEmail(ctx context.Context, job notify.Job, sendErr error) {
	payload, err := json.Marshal(job)
	if err != nil {
		logrus.Errorf("Failed to marshal failed email job: %v", err)
		return
	}

	nextRetry := time.Now().Add(1 * time.Minute)
	failed := models.FailedEmail{
		ID:           uuid.New(),
		Kind:         string(job.Kind),
		Recipient:    job.Recipient,
		FromAddress:  job.FromAddress,
		Payload:      string(payload),
		ErrorMessage: sendErr.Error(),
		Status:       "pending",
		NextRetryAt:  &nextRetry,
	}
	if err := s.db.WithContext(ctx).Create(&failed).Error; err != nil {
		logrus.Errorf("Failed to store failed email for retry: %v", err)
	}
}
