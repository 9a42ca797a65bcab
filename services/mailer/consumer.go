package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
)

// EmailConsumer drains the email job topic and delivers each job through
// the direct SES notifier. Jobs that cannot be delivered are parked in the
// failed_emails table for the retry worker.
type EmailConsumer struct {
	reader *kafka.Reader
	direct notify.Notifier
	db     *gorm.DB
}

// NewEmailConsumer creates a consumer for the email job topic
func NewEmailConsumer(cfg *config.KafkaConfig, direct notify.Notifier, db *gorm.DB) *EmailConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.Broker},
		Topic:          cfg.EmailTopic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &EmailConsumer{
		reader: reader,
		direct: direct,
		db:     db,
	}
}

// Run consumes email jobs until the context is canceled
func (ec *EmailConsumer) Run(ctx context.Context) {
	logrus.Info("Starting email job consumer...")

	for {
		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		msg, err := ec.reader.ReadMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				logrus.Info("Email consumer shutting down")
				return
			}
			// Timeouts are expected when the topic is idle
			if err == context.DeadlineExceeded || err.Error() == "context deadline exceeded" {
				continue
			}
			logrus.Errorf("Error reading email job: %v", err)
			time.Sleep(1 * time.Second)
			continue
		}

		var job notify.Job
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			logrus.Errorf("Error unmarshaling email job: %v", err)
			continue
		}

		if err := ec.deliver(ctx, job); err != nil {
			logrus.Errorf("Error delivering %s email to %s: %v", job.Kind, job.Recipient, err)
			if dlqErr := ec.storeFailedEmail(job, err); dlqErr != nil {
				logrus.Errorf("Failed to park email for retry: %v", dlqErr)
			}
		} else {
			logrus.Infof("Delivered %s email to %s", job.Kind, job.Recipient)
		}
	}
}

func (ec *EmailConsumer) deliver(ctx context.Context, job notify.Job) error {
	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return ec.direct.Send(sendCtx, job)
}

// storeFailedEmail parks an undeliverable job in the retry table
func (ec *EmailConsumer) storeFailedEmail(job notify.Job, sendErr error) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	nextRetryAt := time.Now().Add(1 * time.Minute)
	failed := models.FailedEmail{
		Kind:         string(job.Kind),
		Recipient:    job.Recipient,
		FromAddress:  job.FromAddress,
		Payload:      string(payload),
		ErrorMessage: sendErr.Error(),
		Status:       "pending",
		NextRetryAt:  &nextRetryAt,
	}

	return ec.db.Create(&failed).Error
}

// Close closes the Kafka reader
func (ec *EmailConsumer) Close() error {
	if err := ec.reader.Close(); err != nil {
		return fmt.Errorf("failed to close email reader: %w", err)
	}
	return nil
}
