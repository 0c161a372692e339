package routing

import (
	"sync"
	"time"

	"github.com/Bapt252/nextvision/pkg/metrics"
)

// CircuitState is the breaker's current mode.
type CircuitState int

// Breaker states.
const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Default breaker tuning.
const (
	defaultFailureThreshold = 5
	defaultCooldown         = 60 * time.Second
	defaultFailureWindow    = 60 * time.Second
)

// Breaker tracks provider health. Closed passes calls through; after
// enough consecutive failures inside the window it opens and every call
// short-circuits to the fallback estimator; after the cooldown a single
// half-open trial decides between closing again and re-opening.
//
// Process-wide and safe for concurrent use.
type Breaker struct {
	mu sync.Mutex

	state        CircuitState
	failures     int
	firstFailure time.Time
	openedAt     time.Time
	trialActive  bool

	threshold int
	cooldown  time.Duration
	window    time.Duration

	now func() time.Time
}

// BreakerOption applies a configuration option to the Breaker.
type BreakerOption func(*Breaker)

// WithFailureThreshold sets how many consecutive failures trip the breaker.
func WithFailureThreshold(n int) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before a trial.
func WithCooldown(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithFailureWindow sets the sliding window for the failure counter.
func WithFailureWindow(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.window = d
		}
	}
}

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBreaker creates a closed breaker with default tuning.
func NewBreaker(opts ...BreakerOption) *Breaker {
	b := &Breaker{
		state:     StateClosed,
		threshold: defaultFailureThreshold,
		cooldown:  defaultCooldown,
		window:    defaultFailureWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reports whether a provider call may proceed. In the open state it
// returns false until the cooldown elapses, then admits exactly one
// half-open trial at a time.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.setState(StateHalfOpen)
		b.trialActive = true
		return true
	default: // StateHalfOpen
		if b.trialActive {
			return false
		}
		b.trialActive = true
		return true
	}
}

// RecordSuccess reports a successful provider call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.trialActive = false
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

// RecordFailure reports a failed provider call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.state == StateHalfOpen {
		// Failed trial: back to open, restart the cooldown.
		b.trialActive = false
		b.openedAt = now
		b.setState(StateOpen)
		return
	}

	// Consecutive-failure counter inside a sliding window.
	if b.failures == 0 || now.Sub(b.firstFailure) > b.window {
		b.failures = 0
		b.firstFailure = now
	}
	b.failures++
	if b.failures >= b.threshold {
		b.openedAt = now
		b.setState(StateOpen)
	}
}

// State returns the current state.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setState transitions and keeps the metrics gauge current. Caller holds
// the lock.
func (b *Breaker) setState(s CircuitState) {
	b.state = s
	metrics.UpdateCircuitState(int(s))
}
