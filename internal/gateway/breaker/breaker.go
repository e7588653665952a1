// Package breaker guards outbound calls with a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelpeer/internal/entities"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultMaxRequests      = 3
	defaultInterval         = time.Minute
	defaultTimeout          = 30 * time.Second
	defaultFailureThreshold = 5
	defaultFailureRatio     = 0.6
	defaultMinRequests      = 10
)

// Breaker wraps gobreaker with logging.
type Breaker struct {
	cb  *gobreaker.CircuitBreaker
	log *zap.SugaredLogger
}

// New creates a breaker that trips on consecutive failures or a high failure ratio.
func New(name string, log *zap.SugaredLogger) *Breaker {
	log = log.Named("breaker")
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: defaultMaxRequests,
		Interval:    defaultInterval,
		Timeout:     defaultTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= defaultFailureThreshold {
				return true
			}
			if counts.Requests >= defaultMinRequests {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= defaultFailureRatio
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings), log: log}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as a caller error that must not count against the circuit.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn through the circuit. An open circuit yields entities.ErrGatewayUnavailable.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var permanent error
	_, err := b.cb.Execute(func() (interface{}, error) {
		err := fn(ctx)
		var pe *permanentError
		if errors.As(err, &pe) {
			permanent = pe.err
			return nil, nil
		}
		return nil, err
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		b.log.Warnw("circuit breaker rejected call", "name", b.cb.Name(), "state", b.cb.State().String())
		return fmt.Errorf("%w: %s", entities.ErrGatewayUnavailable, b.cb.Name())
	case err != nil:
		return err
	}
	return permanent
}

// State reports the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
