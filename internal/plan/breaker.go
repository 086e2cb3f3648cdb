package plan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Generator is the welcome plan contract shared by every implementation.
type Generator interface {
	GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error)
}

// BreakerConfig holds configuration for the plan circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Consecutive failures that open the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a default configuration for the plan breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "plan-generator",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// Breaker fails fast while the wrapped generator keeps failing. It never retries.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Generator, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about the provider's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{next: next, cb: cb}
}

// GenerateWelcomePlan delegates to the wrapped generator unless the breaker is open.
func (b *Breaker) GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GenerateWelcomePlan(ctx, name, address)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &GenerationError{Provider: "breaker", Err: err}
		}
		return nil, err
	}
	steps, _ := out.([]string)
	return steps, nil
}

// State reports the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
