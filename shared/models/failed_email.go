package models

import (
	"time"

	"github.com/google/uuid"
)

// FailedEmail represents an email job that could not be delivered on
// either the queued or the direct path. The mailer service retries these
// with backoff until MaxRetries is exhausted.
type FailedEmail struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Kind         string     `json:"kind" gorm:"not null"`
	Recipient    string     `json:"recipient" gorm:"not null"`
	FromAddress  string     `json:"from_address"`
	Payload      string     `json:"payload" gorm:"type:jsonb;not null"`
	ErrorMessage string     `json:"error_message" gorm:"not null"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
	Status       string     `json:"status" gorm:"default:'pending'"`
	NextRetryAt  *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// TableName returns the table name for the FailedEmail model
func (FailedEmail) TableName() string {
	return "failed_emails"
}
