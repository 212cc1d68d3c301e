// Package backoff implements the bounded, doubling-delay retry strategy
// used against transient I/O contention.
package backoff

import (
	"fmt"
	"time"
)

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Ceiling     time.Duration

	// Sleep is swappable for tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Default returns the policy used by the document updater.
func Default() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		Ceiling:     2 * time.Second,
	}
}

// Retry runs fn until it succeeds or the attempt budget is spent.
// The delay doubles between attempts, capped at Ceiling. The last error
// is wrapped into the returned error.
func (p Policy) Retry(fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			sleep(delay)
			delay *= 2
			if p.Ceiling > 0 && delay > p.Ceiling {
				delay = p.Ceiling
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}
