package circuitbreaker

import (
	"sync"
	"time"
)

// Implements the circuit breaker pattern around a single collaborator.
// One instance is created per guarded service and shared by all requests;
// transitions are mutex-guarded.
type CircuitBreaker struct {
	mu           sync.Mutex
	state        State
	failureCount int
	openedAt     time.Time

	// Configuration
	failureThreshold int           // Number of failures before opening
	cooldown         time.Duration // How long to stay open before probing
}

type Config struct {
	FailureThreshold int           // Default: 3
	Cooldown         time.Duration // Default: 30 seconds
}

func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}

	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: cfg.FailureThreshold,
		cooldown:         cfg.Cooldown,
	}
}

// TryAcquire reports whether a call to the collaborator may proceed.
// While open, it refuses until the cooldown has elapsed; the first
// acquisition after that moves the breaker to half-open and lets a
// probe through. There is no background timer, the transition happens
// lazily here.
func (cb *CircuitBreaker) TryAcquire() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}

	if time.Since(cb.openedAt) < cb.cooldown {
		return false
	}

	cb.state = StateHalfOpen
	return true
}

// RecordSuccess closes the breaker and clears the failure count,
// regardless of the current state.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.state = StateClosed
}

// RecordFailure counts a failed call and opens the breaker once the
// threshold is reached. The count is not reset between half-open
// probes, so a single failed probe re-opens the circuit immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	if cb.failureCount >= cb.failureThreshold {
		cb.state = StateOpen
		cb.openedAt = time.Now()
	}
}

// Returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Returns the current failure count, for health reporting
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}
