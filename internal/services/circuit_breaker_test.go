package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// breakerWithClock returns a breaker whose clock only moves when advance is called
func breakerWithClock(cfg CircuitBreakerConfig) (*CircuitBreaker, func(time.Duration)) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(cfg)
	cb.now = func() time.Time { return now }
	return cb, func(d time.Duration) { now = now.Add(d) }
}

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	cb, _ := breakerWithClock(CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Minute})

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 2, cb.GetFailureCount())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_SuccessClearsFailureStreak(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	assert.Zero(t, cb.GetFailureCount())
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_TrialsCloseAfterTimeout(t *testing.T) {
	cb, advance := breakerWithClock(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute, TrialSuccesses: 2})

	cb.RecordFailure()
	advance(59 * time.Second)
	assert.True(t, cb.IsOpen())

	advance(time.Second)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, StateHalfOpen, cb.GetState())

	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.GetState())
	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	cb, advance := breakerWithClock(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute, TrialSuccesses: 2})

	cb.RecordFailure()
	advance(time.Minute)
	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	// the timeout restarts from the failed trial
	advance(30 * time.Second)
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_ZeroConfigStillTrips(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{ResetTimeout: time.Hour})

	cb.RecordFailure()

	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_NotifiesOnlyOnTransitions(t *testing.T) {
	cb, _ := breakerWithClock(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour})

	var transitions []string
	cb.OnStateChange(func(from, to CircuitBreakerState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.Reset()
	cb.Reset()

	assert.Equal(t, []string{"closed->open", "open->closed"}, transitions)
}

func TestCircuitBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitBreakerState(9).String())
}
