package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeNotifier records calls and returns a fixed error
type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) Send(ctx context.Context, job Job) error {
	f.calls++
	return f.err
}

func TestFallbackQueuedSuccessSkipsDirect(t *testing.T) {
	queued := &fakeNotifier{}
	direct := &fakeNotifier{}

	err := NewFallbackNotifier(queued, direct).Send(context.Background(), confirmedJob())

	assert.NoError(t, err)
	assert.Equal(t, 1, queued.calls)
	assert.Equal(t, 0, direct.calls)
}

func TestFallbackQueuedFailureSendsDirectOnce(t *testing.T) {
	queued := &fakeNotifier{err: errors.New("broker unreachable")}
	direct := &fakeNotifier{}

	err := NewFallbackNotifier(queued, direct).Send(context.Background(), confirmedJob())

	assert.NoError(t, err)
	assert.Equal(t, 1, queued.calls)
	assert.Equal(t, 1, direct.calls)
}

func TestFallbackBothPathsFail(t *testing.T) {
	queued := &fakeNotifier{err: errors.New("broker unreachable")}
	directErr := errors.New("ses throttled")
	direct := &fakeNotifier{err: directErr}

	err := NewFallbackNotifier(queued, direct).Send(context.Background(), confirmedJob())

	assert.ErrorIs(t, err, directErr)
	assert.Equal(t, 1, queued.calls)
	assert.Equal(t, 1, direct.calls)
}
