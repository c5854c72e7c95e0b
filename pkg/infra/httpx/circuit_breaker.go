package httpx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	DefaultBreakerTimeout     = 30 * time.Second
	DefaultBreakerMaxFailures = 5
)

type CircuitBreaker interface {
	Execute(fn func() error) error
}

type BreakerOption func(*gobreaker.Settings)

// WithStateChangeLogger logs every transition, so an inference backend going
// down (open) or coming back (closed) shows up in the service logs.
func WithStateChangeLogger(logger *logrus.Logger) BreakerOption {
	return func(s *gobreaker.Settings) {
		s.OnStateChange = func(name string, from, to gobreaker.State) {
			entry := logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if to == gobreaker.StateOpen {
				entry.Warn("circuit breaker opened")
				return
			}
			entry.Info("circuit breaker state changed")
		}
	}
}

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker trips after maxFailures consecutive failures and stays
// open for timeout. Zero values fall back to the defaults. A cancelled
// context is the caller giving up, not the backend failing, so it does not
// count against the backend.
func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32, opts ...BreakerOption) CircuitBreaker {
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	if maxFailures == 0 {
		maxFailures = DefaultBreakerMaxFailures
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), err)
	}
	return nil
}
