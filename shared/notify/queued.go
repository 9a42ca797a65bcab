package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// QueuedNotifier hands email jobs to Kafka. The mailer service consumes
// the topic, renders the template and sends the mail asynchronously.
type QueuedNotifier struct {
	writer *kafka.Writer
	topic  string
}

// NewQueuedNotifier creates a Kafka-backed notifier
func NewQueuedNotifier(broker, topic string) *QueuedNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return &QueuedNotifier{writer: writer, topic: topic}
}

// Send enqueues a job. The job is validated against the template table
// first so unknown kinds never reach the queue.
func (q *QueuedNotifier) Send(ctx context.Context, job Job) error {
	if _, ok := templates[job.Kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}

	message, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	msg := kafka.Message{
		Topic: q.topic,
		Key:   []byte(job.Recipient),
		Value: message,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(job.Kind)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := q.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("failed to write email job to Kafka: %w", err)
	}

	return nil
}

// Close closes the underlying Kafka writer
func (q *QueuedNotifier) Close() error {
	if err := q.writer.Close(); err != nil {
		return fmt.Errorf("failed to close email job writer: %w", err)
	}
	return nil
}
