package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FallbackNotifier prefers queued delivery and degrades to a single direct
// send when the queue is unavailable. The direct attempt happens at most
// once per job; its outcome is logged either way.
type FallbackNotifier struct {
	queued Notifier
	direct Notifier
}

// NewFallbackNotifier composes a queued notifier with a direct fallback
func NewFallbackNotifier(queued, direct Notifier) *FallbackNotifier {
	return &FallbackNotifier{queued: queued, direct: direct}
}

// Send tries the queued path first. On any queue error the job is sent
// directly, exactly once. An error is returned only when both paths fail,
// so callers can record the job for retry; callers must treat that error
// as a logged side effect, never as a reason to fail the triggering write.
func (f *FallbackNotifier) Send(ctx context.Context, job Job) error {
	err := f.queued.Send(ctx, job)
	if err == nil {
		return nil
	}

	logrus.Warnf("Queued dispatch failed for %s (%s), falling back to direct send: %v",
		job.Recipient, job.Kind, err)

	directErr := f.direct.Send(ctx, job)
	if directErr != nil {
		logrus.Errorf("Direct email send failed for %s (%s): %v", job.Recipient, job.Kind, directErr)
		return directErr
	}

	logrus.Infof("Direct email sent to %s (%s)", job.Recipient, job.Kind)
	return nil
}
