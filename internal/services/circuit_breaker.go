package services

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig controls when the event publisher is skipped.
// After MaxFailures consecutive failures publishing stops for ResetTimeout, then
// TrialSuccesses good publishes are needed before the breaker closes again.
type CircuitBreakerConfig struct {
	MaxFailures    int
	ResetTimeout   time.Duration
	TrialSuccesses int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:    5,
		ResetTimeout:   30 * time.Second,
		TrialSuccesses: 3,
	}
}

// CircuitBreakerState is exported as a gauge: 0=closed, 1=open, 2=half-open
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

var stateNames = map[CircuitBreakerState]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half_open",
}

func (s CircuitBreakerState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	now      func() time.Time
	state    CircuitBreakerState
	failures int
	trials   int
	openedAt time.Time
	notify   func(from, to CircuitBreakerState)
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}
	if cfg.TrialSuccesses < 1 {
		cfg.TrialSuccesses = 1
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn for every transition. fn runs with the breaker locked.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to CircuitBreakerState)) {
	cb.mu.Lock()
	cb.notify = fn
	cb.mu.Unlock()
}

// IsOpen reports whether calls should be skipped. An open breaker whose reset
// timeout has passed moves to half-open and lets the call through as a trial call.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.ResetTimeout {
		cb.moveTo(StateHalfOpen)
	}
	return cb.state == StateOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.trials++
		if cb.trials >= cb.cfg.TrialSuccesses {
			cb.moveTo(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.moveTo(StateOpen)
	}
}

// moveTo resets the counters for the new state; callers hold mu
func (cb *CircuitBreaker) moveTo(next CircuitBreakerState) {
	prev := cb.state
	cb.state = next
	cb.trials = 0
	switch next {
	case StateClosed:
		cb.failures = 0
	case StateOpen:
		cb.openedAt = cb.now()
	}
	if prev != next && cb.notify != nil {
		cb.notify(prev, next)
	}
}

func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.moveTo(StateClosed)
}

// GetFailureCount is the number of consecutive failures while closed
func (cb *CircuitBreaker) GetFailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
