package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"

	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// DirectNotifier renders a job and sends it in-process through SES.
// Sends go through a circuit breaker so a broken mail backend fails fast
// instead of stalling request handlers on the fallback path.
type DirectNotifier struct {
	client      *ses.SES
	defaultFrom string
	breaker     *utils.CircuitBreaker
}

// NewDirectNotifier creates an SES-backed notifier
func NewDirectNotifier(region, defaultFrom string) (*DirectNotifier, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &DirectNotifier{
		client:      ses.New(sess),
		defaultFrom: defaultFrom,
		breaker:     utils.NewCircuitBreaker(5, 30*time.Second),
	}, nil
}

// Send renders the template for the job's kind and sends the mail
// synchronously. The From address is the tenant's configured sender when
// set, the system default otherwise.
func (d *DirectNotifier) Send(ctx context.Context, job Job) error {
	subject, body, err := Render(job)
	if err != nil {
		return err
	}

	from := job.FromAddress
	if from == "" {
		from = d.defaultFrom
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(job.Recipient)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	err = d.breaker.Call(func() error {
		_, sendErr := d.client.SendEmailWithContext(ctx, input)
		return sendErr
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", job.Recipient, err)
	}

	return nil
}
