package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionStatus represents the billing state of a business
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Business represents a tenant in the multi-tenant system.
// Each business gets its own subdomain and isolated data.
type Business struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Subdomain string    `json:"subdomain" gorm:"uniqueIndex;not null"`

	// Contact information
	Email string `json:"email" gorm:"not null"`
	Phone string `json:"phone"`

	// Business settings
	BusinessHoursStart string `json:"business_hours_start" gorm:"default:'09:00'"`
	BusinessHoursEnd   string `json:"business_hours_end" gorm:"default:'18:00'"`
	Timezone           string `json:"timezone" gorm:"default:'Europe/Berlin'"`

	// Email configuration
	EmailFromName    string `json:"email_from_name"`
	EmailFromAddress string `json:"email_from_address"`

	// Branding
	PrimaryColor string `json:"primary_color" gorm:"default:'#3B82F6'"`
	LogoURL      string `json:"logo_url"`

	// Status
	IsActive            bool               `json:"is_active" gorm:"default:true"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status" gorm:"type:varchar(20);default:'trial'"`
	SubscriptionExpires *time.Time         `json:"subscription_expires,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Relationships
	Users        []User        `json:"users,omitempty" gorm:"foreignKey:BusinessID"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:BusinessID"`
}

// TableName returns the table name for the Business model
func (Business) TableName() string {
	return "businesses"
}

// AdminEmail returns the address used for admin notifications
func (b *Business) AdminEmail() string {
	if b.EmailFromAddress != "" {
		return b.EmailFromAddress
	}
	return b.Email
}

// FullDomain returns the full subdomain host for the business
func (b *Business) FullDomain(baseDomain string) string {
	return b.Subdomain + "." + baseDomain
}

// Location returns the business timezone, falling back to UTC
func (b *Business) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ValidSubdomain reports whether a subdomain contains only
// lowercase letters, digits and hyphens.
func ValidSubdomain(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return s == strings.ToLower(s)
}
