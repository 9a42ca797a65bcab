package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
)

// RetryWorker re-delivers parked email jobs with exponential backoff
type RetryWorker struct {
	db            *gorm.DB
	direct        notify.Notifier
	maxRetries    int
	batchSize     int
	checkInterval time.Duration
}

// NewRetryWorker creates a retry worker over the failed_emails table
func NewRetryWorker(db *gorm.DB, direct notify.Notifier) *RetryWorker {
	return &RetryWorker{
		db:            db,
		direct:        direct,
		maxRetries:    8,
		batchSize:     100,
		checkInterval: 30 * time.Second,
	}
}

// Run processes due retries until the context is canceled
func (rw *RetryWorker) Run(ctx context.Context) {
	logrus.Info("Starting failed email retry worker...")

	ticker := time.NewTicker(rw.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Retry worker shutting down")
			return
		case <-ticker.C:
			rw.processBatch(ctx)
		}
	}
}

func (rw *RetryWorker) processBatch(ctx context.Context) {
	var failed []models.FailedEmail
	err := rw.db.Where("status = ? AND next_retry_at <= ?", "pending", time.Now()).
		Order("created_at ASC").
		Limit(rw.batchSize).
		Find(&failed).Error
	if err != nil {
		logrus.Errorf("Error fetching failed emails: %v", err)
		return
	}

	if len(failed) == 0 {
		return
	}

	logrus.Infof("Retrying %d failed emails", len(failed))
	for _, f := range failed {
		if err := rw.retryOne(ctx, f); err != nil {
			logrus.Errorf("Failed to retry email %s: %v", f.ID, err)
		}
	}
}

// retryOne re-sends a single parked job
func (rw *RetryWorker) retryOne(ctx context.Context, failed models.FailedEmail) error {
	var job notify.Job
	if err := json.Unmarshal([]byte(failed.Payload), &job); err != nil {
		// An unreadable payload will never deliver
		return rw.markPermanentlyFailed(failed, fmt.Sprintf("Unreadable payload: %s", err))
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err := rw.direct.Send(sendCtx, job)
	cancel()

	if err != nil {
		return rw.updateRetryStatus(failed, err)
	}

	logrus.Infof("Recovered %s email to %s after %d retries", failed.Kind, failed.Recipient, failed.RetryCount)
	return rw.markResolved(failed)
}

// updateRetryStatus bumps the retry count and schedules the next attempt
func (rw *RetryWorker) updateRetryStatus(failed models.FailedEmail, err error) error {
	failed.RetryCount++

	if failed.RetryCount >= rw.maxRetries {
		failed.Status = "permanently_failed"
		now := time.Now()
		failed.ResolvedAt = &now
		failed.ErrorMessage = fmt.Sprintf("Max retries reached: %s", err.Error())
	} else {
		// 1m, 2m, 4m, 8m, ...
		baseDelay := 1 * time.Minute
		delay := baseDelay * time.Duration(1<<(failed.RetryCount-1))
		nextRetryAt := time.Now().Add(delay)
		failed.NextRetryAt = &nextRetryAt
		failed.ErrorMessage = err.Error()
	}

	return rw.db.Save(&failed).Error
}

func (rw *RetryWorker) markResolved(failed models.FailedEmail) error {
	now := time.Now()
	failed.Status = "resolved"
	failed.ResolvedAt = &now
	return rw.db.Save(&failed).Error
}

func (rw *RetryWorker) markPermanentlyFailed(failed models.FailedEmail, reason string) error {
	now := time.Now()
	failed.Status = "permanently_failed"
	failed.ResolvedAt = &now
	failed.ErrorMessage = reason
	return rw.db.Save(&failed).Error
}

// Stats returns retry queue statistics for the stats endpoint
func (rw *RetryWorker) Stats() map[string]interface{} {
	var stats struct {
		Pending           int64 `json:"pending"`
		Resolved          int64 `json:"resolved"`
		PermanentlyFailed int64 `json:"permanently_failed"`
	}

	rw.db.Model(&models.FailedEmail{}).Where("status = ?", "pending").Count(&stats.Pending)
	rw.db.Model(&models.FailedEmail{}).Where("status = ?", "resolved").Count(&stats.Resolved)
	rw.db.Model(&models.FailedEmail{}).Where("status = ?", "permanently_failed").Count(&stats.PermanentlyFailed)

	return map[string]interface{}{
		"retry_stats": stats,
		"config": map[string]interface{}{
			"max_retries":    rw.maxRetries,
			"batch_size":     rw.batchSize,
			"check_interval": rw.checkInterval.String(),
		},
	}
}
