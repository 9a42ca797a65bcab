package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
)

func TestAllowedTransition(t *testing.T) {
	tests := []struct {
		from models.ReservationStatus
		to   models.ReservationStatus
		want bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCanceled, true},
		{models.StatusPending, models.StatusCompleted, true},
		{models.StatusConfirmed, models.StatusCanceled, true},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusCanceled, models.StatusCompleted, true},
		{models.StatusCompleted, models.StatusCompleted, true},

		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusCanceled, models.StatusPending, false},
		{models.StatusCanceled, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCompleted, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, allowedTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionEmail(t *testing.T) {
	tests := []struct {
		name     string
		from     models.ReservationStatus
		to       models.ReservationStatus
		wantKind notify.Kind
		wantSend bool
	}{
		{"confirmation", models.StatusPending, models.StatusConfirmed, notify.KindReservationConfirmed, true},
		{"cancellation from pending", models.StatusPending, models.StatusCanceled, notify.KindReservationCanceled, true},
		{"cancellation from confirmed", models.StatusConfirmed, models.StatusCanceled, notify.KindReservationCanceled, true},
		{"completion is silent", models.StatusConfirmed, models.StatusCompleted, "", false},
		{"no-op save is silent", models.StatusConfirmed, models.StatusConfirmed, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, send := transitionEmail(tt.from, tt.to)
			assert.Equal(t, tt.wantSend, send)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func testBusiness() *models.Business {
	return &models.Business{
		ID:               uuid.New(),
		Name:             "Fade District",
		Subdomain:        "fade",
		Email:            "owner@fadedistrict.com",
		Timezone:         "Europe/Berlin",
		EmailFromAddress: "bookings@fadedistrict.com",
		PrimaryColor:     "#3B82F6",
	}
}

func testReservation(businessID uuid.UUID) *models.Reservation {
	return &models.Reservation{
		ID:            uuid.New(),
		BusinessID:    businessID,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+49123456789",
		StartTime:     time.Date(2026, time.January, 2, 13, 30, 0, 0, time.UTC),
		EndTime:       time.Date(2026, time.January, 2, 14, 0, 0, 0, time.UTC),
		Status:        models.StatusPending,
	}
}

func TestAdminNewJob(t *testing.T) {
	business := testBusiness()
	job := adminNewJob(business, testReservation(business.ID))

	assert.Equal(t, notify.KindNewReservationAdmin, job.Kind)
	assert.Equal(t, "bookings@fadedistrict.com", job.Recipient)
	assert.Equal(t, "Jane Doe", job.Data["customer_name"])
	assert.Equal(t, "jane@example.com", job.Data["customer_email"])
	// 13:30 UTC in winter is 14:30 in Berlin
	assert.Equal(t, "January 02, 2026", job.Data["date"])
	assert.Equal(t, "02:30 PM", job.Data["time"])
}

func TestAdminNewJobFallsBackToBusinessEmail(t *testing.T) {
	business := testBusiness()
	business.EmailFromAddress = ""

	job := adminNewJob(business, testReservation(business.ID))
	assert.Equal(t, "owner@fadedistrict.com", job.Recipient)
}

func TestCustomerJob(t *testing.T) {
	business := testBusiness()
	job := customerJob(notify.KindReservationConfirmed, business, testReservation(business.ID))

	assert.Equal(t, notify.KindReservationConfirmed, job.Kind)
	assert.Equal(t, "jane@example.com", job.Recipient)
	assert.Equal(t, "bookings@fadedistrict.com", job.FromAddress)
	assert.Equal(t, "Fade District", job.Data["business_name"])
	assert.Equal(t, "#3B82F6", job.Data["brand_color"])
}
