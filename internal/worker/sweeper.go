// Package worker runs background maintenance loops.
package worker

import (
	"context"
	"time"

	"parcelpeer/internal/entities"

	"go.uber.org/zap"
)

const defaultSweepInterval = time.Minute

// Sweepable performs one maintenance pass.
type Sweepable interface {
	Sweep(ctx context.Context) (entities.SweepResult, error)
}

// Sweeper expires parcels and closes stale disputes on a fixed interval.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	timeout  time.Duration
	log      *zap.SugaredLogger
}

// NewSweeper creates a sweeper. Each pass is bounded by timeout when it is positive.
func NewSweeper(target Sweepable, interval, timeout time.Duration, log *zap.SugaredLogger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		target:   target,
		interval: interval,
		timeout:  timeout,
		log:      log.Named("sweeper"),
	}
}

// Run blocks until ctx is done, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infow("sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass and logs its outcome.
func (s *Sweeper) RunOnce(ctx context.Context) entities.SweepResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.target.Sweep(ctx)
	if err != nil {
		s.log.Errorw("sweep failed", "error", err,
			"expired_parcels", res.ExpiredParcels,
			"refunded", res.Refunded,
		)
		return res
	}
	if res.ExpiredParcels > 0 || res.ClosedDisputes > 0 {
		s.log.Infow("sweep finished",
			"expired_parcels", res.ExpiredParcels,
			"refunded", res.Refunded,
			"closed_disputes", res.ClosedDisputes,
		)
	}
	return res
}
