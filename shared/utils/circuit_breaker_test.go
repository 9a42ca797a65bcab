package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBackend = errors.New("backend down")

func failing() error { return errBackend }
func healthy() error { return nil }

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(failing), errBackend)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	err := cb.Call(healthy)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.Call(failing)
	cb.Call(failing)
	assert.NoError(t, cb.Call(healthy))
	cb.Call(failing)
	cb.Call(failing)

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreakerProbeAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.Call(failing)
	assert.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, cb.Call(healthy))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.Call(failing)
	time.Sleep(20 * time.Millisecond)

	assert.ErrorIs(t, cb.Call(failing), errBackend)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)

	cb.Call(failing)
	assert.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Call(healthy))
}
