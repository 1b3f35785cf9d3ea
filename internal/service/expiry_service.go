package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rewards/voucherhub/internal/clock"
	"rewards/voucherhub/internal/metrics"
	"rewards/voucherhub/internal/repository"
)

type ExpiryService interface {
	// InvalidateExpired marks every still-valid voucher whose expiry has
	// passed as invalid and returns how many were changed.
	InvalidateExpired(ctx context.Context) (int64, error)
}

type expiryService struct {
	repo    repository.VoucherRepository
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewExpiryService(repo repository.VoucherRepository, clk clock.Clock, m *metrics.Metrics, logger *zap.Logger) ExpiryService {
	return &expiryService{repo: repo, clock: clk, metrics: m, logger: logger}
}

func (s *expiryService) InvalidateExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.InvalidateExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("error updating expired vouchers", zap.Error(err))
		return 0, fmt.Errorf("invalidate expired vouchers: %w", err)
	}

	if n == 0 {
		s.logger.Info("no expired vouchers found")
		return 0, nil
	}

	s.metrics.ObserveInvalidated(n)
	s.logger.Info("marked vouchers as invalid", zap.Int64("count", n))
	return n, nil
}

var _ ExpiryService = (*expiryService)(nil)
