// Package retry provides backoff policies for transient failures such as
// publishing build notifications.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Mode selects how the delay grows between attempts.
type Mode string

const (
	ModeFixed       Mode = "fixed"
	ModeLinear      Mode = "linear"
	ModeExponential Mode = "exponential"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction. The zero Policy never retries.
type Policy struct {
	Mode       Mode          // fixed|linear|exponential
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // maximum retry attempts after the first failure
}

// DefaultPolicy returns the default policy (linear, 200ms initial, 2s cap, 2 retries).
func DefaultPolicy() Policy {
	return Policy{Mode: ModeLinear, Initial: 200 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw fields; zero/invalid values fall back to defaults.
func NewPolicy(mode Mode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case ModeFixed, ModeLinear, ModeExponential:
		p.Mode = mode
	default:
		// unknown -> keep default
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case ModeFixed:
		return p.Initial
	case ModeExponential:
		d = p.Initial * (1 << (retryCount - 1))
	default: // linear
		d = time.Duration(retryCount) * p.Initial
	}
	if d > p.Max {
		return p.Max
	}
	return d
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// retryable is implemented by errors that know whether a retry can help.
type retryable interface {
	CanRetry() bool
}

// Do calls fn until it succeeds, the retries are used up or ctx is done.
// Errors reporting CanRetry() == false end the loop at once. The last error
// from fn is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for attempt := 1; err != nil && attempt <= p.MaxRetries; attempt++ {
		var r retryable
		if errors.As(err, &r) && !r.CanRetry() {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		err = fn(ctx)
	}
	return err
}
