package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCanceled  ReservationStatus = "canceled"
	StatusCompleted ReservationStatus = "completed"
)

// ValidStatus reports whether s is one of the known reservation statuses
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

// Reservation represents a booked appointment. A reservation belongs to
// exactly one business; customer contact data is carried inline so no
// user account is required for public bookings.
type Reservation struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BusinessID uuid.UUID `json:"business_id" gorm:"type:uuid;not null;index:idx_reservations_business_status;index:idx_reservations_business_start"`

	// Customer info (no user account needed)
	CustomerName  string `json:"customer_name" gorm:"not null"`
	CustomerEmail string `json:"customer_email" gorm:"not null;index"`
	CustomerPhone string `json:"customer_phone"`

	// Reservation details
	StartTime time.Time         `json:"start_time" gorm:"not null;index:idx_reservations_business_start"`
	EndTime   time.Time         `json:"end_time" gorm:"not null"`
	Status    ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_reservations_business_status"`
	Notes     string            `json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Business *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// ValidWindow reports whether the reservation time window is well formed
func (r *Reservation) ValidWindow() bool {
	return r.StartTime.Before(r.EndTime)
}

// IsOverdue reports whether the reservation ended in the past while still
// pending or confirmed.
func (r *Reservation) IsOverdue(now time.Time) bool {
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return false
	}
	return r.EndTime.Before(now)
}
