package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rewards/voucherhub/internal/service"
)

// Sweeper runs the expiry sweep on a fixed interval until its context ends.
type Sweeper struct {
	expiry   service.ExpiryService
	interval time.Duration
	logger   *zap.Logger
}

func NewSweeper(expiry service.ExpiryService, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{expiry: expiry, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick. A failed sweep is
// logged and retried on the next tick. Run returns nil when ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("expiry sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.expiry.InvalidateExpired(ctx); err != nil {
		s.logger.Warn("expiry sweep failed", zap.Error(err))
	}
}
