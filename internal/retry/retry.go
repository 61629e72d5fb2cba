// Package retry provides bounded retry with exponential backoff for
// connection establishment at process startup. Steady-state operations do
// not go through this package; their failures surface to the caller.
package retry

import (
	"fmt"
	"log"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
	delayMultiple       = 2.0
)

// Policy describes how often and how patiently to retry.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultPolicy mirrors the historical startup behavior: three attempts,
// one second initial delay, doubling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  defaultMaxAttempts,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
	}
}

// Do runs fn until it succeeds or the attempt budget is exhausted, sleeping
// with exponential backoff between attempts. The label appears in retry
// logs so concurrent startups stay readable.
func (p Policy) Do(label string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = defaultInitialDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Printf("%s: attempt %d/%d failed: %v (retrying in %s)",
			label, attempt, attempts, lastErr, delay)
		time.Sleep(delay)
		delay = nextDelay(delay, p.MaxDelay)
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", label, attempts, lastErr)
}

func nextDelay(current, maxDelay time.Duration) time.Duration {
	next := time.Duration(float64(current) * delayMultiple)
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	if next > maxDelay {
		return maxDelay
	}
	return next
}
