package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the role of a user account
type UserRole string

const (
	RoleSuperAdmin    UserRole = "super_admin"
	RoleBusinessOwner UserRole = "business_owner"
)

// User represents an account that can log into the platform.
// Super admins have no business; business owners belong to exactly one.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'business_owner'"`
	BusinessID   *uuid.UUID `json:"business_id,omitempty" gorm:"type:uuid;index"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Business *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsSuperAdmin reports whether the user is a platform super admin
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// UserInfo represents the authenticated caller derived from JWT claims
type UserInfo struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	BusinessID *uuid.UUID `json:"business_id,omitempty"`
}

func (ui *UserInfo) IsSuperAdmin() bool {
	return ui.Role == RoleSuperAdmin
}

// CanAccessBusiness reports whether the caller may read data of the given tenant
func (ui *UserInfo) CanAccessBusiness(businessID uuid.UUID) bool {
	if ui.IsSuperAdmin() {
		return true
	}
	return ui.BusinessID != nil && *ui.BusinessID == businessID
}

// TokenSession represents a login session stored in Redis
type TokenSession struct {
	UserInfo   UserInfo  `json:"user_info"`
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (ts *TokenSession) IsExpired() bool {
	return time.Now().After(ts.ExpiresAt)
}

func (ts *TokenSession) UpdateLastUsed() {
	ts.LastUsedAt = time.Now()
}
