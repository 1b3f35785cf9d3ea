package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rewards/voucherhub/internal/clock"
	"rewards/voucherhub/internal/codegen"
	"rewards/voucherhub/internal/metrics"
	"rewards/voucherhub/internal/model"
	"rewards/voucherhub/internal/repository"
)

// maxStoreConflicts bounds how often a generated code may lose the insert
// race to a concurrent request before the issue request fails.
const maxStoreConflicts = 3

type IssueRequest struct {
	Value      float64
	ExpiryDate string
}

type VoucherService interface {
	IssueVoucher(ctx context.Context, req IssueRequest) (*model.Voucher, error)
	GetVoucher(ctx context.Context, code string) (*model.Voucher, error)
	GetOffensiveWords(ctx context.Context) (codegen.WordSet, error)
	SetOffensiveWords(ctx context.Context, raw string) (codegen.WordSet, error)
}

type voucherService struct {
	repo      repository.VoucherRepository
	params    repository.ParamStore
	generator *codegen.Generator
	clock     clock.Clock
	wordsPath string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewVoucherService(
	repo repository.VoucherRepository,
	params repository.ParamStore,
	generator *codegen.Generator,
	clk clock.Clock,
	wordsPath string,
	m *metrics.Metrics,
	logger *zap.Logger,
) VoucherService {
	return &voucherService{
		repo:      repo,
		params:    params,
		generator: generator,
		clock:     clk,
		wordsPath: wordsPath,
		metrics:   m,
		logger:    logger,
	}
}

// IssueVoucher validates the request, loads the offensive-word list once,
// generates a unique code and stores the assembled voucher.
func (s *voucherService) IssueVoucher(ctx context.Context, req IssueRequest) (*model.Voucher, error) {
	now := s.clock.Now()

	expiry, err := ValidateVoucherData(req.Value, req.ExpiryDate, now)
	if err != nil {
		s.logger.Info("rejected voucher request", zap.Error(err))
		s.metrics.ObserveFailure(metrics.ReasonInvalidInput)
		return nil, err
	}

	words, err := s.GetOffensiveWords(ctx)
	if err != nil {
		s.metrics.ObserveFailure(metrics.ReasonParameters)
		return nil, err
	}

	for conflicts := 0; ; conflicts++ {
		code, err := s.generate(ctx, words)
		if err != nil {
			return nil, err
		}

		voucher := model.NewVoucher(code, req.Value, expiry, now)
		err = s.repo.Create(ctx, voucher)
		if err == nil {
			s.metrics.ObserveIssued()
			s.logger.Info("voucher issued",
				zap.String("code", voucher.Code),
				zap.Time("expiry_date", voucher.ExpiryDate),
			)
			return voucher, nil
		}

		if !errors.Is(err, repository.ErrCodeExists) {
			s.metrics.ObserveFailure(metrics.ReasonStore)
			return nil, fmt.Errorf("store voucher: %w", err)
		}

		s.logger.Warn("generated code lost insert race", zap.String("code", code), zap.Int("conflicts", conflicts+1))
		if conflicts+1 >= maxStoreConflicts {
			s.metrics.ObserveFailure(metrics.ReasonStoreConflict)
			return nil, fmt.Errorf("%w after %d attempts", ErrCodeConflict, conflicts+1)
		}
	}
}

// generate runs one bounded generation sequence against the repository and
// records how many candidates it took.
func (s *voucherService) generate(ctx context.Context, words codegen.WordSet) (string, error) {
	probes := 0
	prober := codegen.ProbeFunc(func(ctx context.Context, code string) (bool, error) {
		probes++
		return s.repo.Exists(ctx, code)
	})

	code, err := s.generator.Generate(ctx, words, prober)
	s.metrics.ObserveCandidates(probes)
	if err == nil {
		return code, nil
	}

	switch {
	case errors.Is(err, codegen.ErrGenerationExhausted):
		s.metrics.ObserveFailure(metrics.ReasonExhausted)
		s.logger.Error("voucher code space exhausted",
			zap.Int("candidates", probes),
			zap.Int("offensive_words", words.Len()),
			zap.Error(err),
		)
	case errors.Is(err, codegen.ErrProbeFailed):
		s.metrics.ObserveFailure(metrics.ReasonProbe)
		s.logger.Error("voucher uniqueness probe failed", zap.Error(err))
	case errors.Is(err, codegen.ErrRandomSource):
		s.metrics.ObserveFailure(metrics.ReasonRandomSource)
		s.logger.Error("random source failed", zap.Error(err))
	}
	return "", err
}

func (s *voucherService) GetVoucher(ctx context.Context, code string) (*model.Voucher, error) {
	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// GetOffensiveWords reads the word list from the parameter source. An absent
// or empty parameter yields an empty set.
func (s *voucherService) GetOffensiveWords(ctx context.Context) (codegen.WordSet, error) {
	raw, ok, err := s.params.Get(ctx, s.wordsPath)
	if err != nil {
		s.logger.Error("error retrieving offensive words", zap.String("path", s.wordsPath), zap.Error(err))
		return codegen.WordSet{}, fmt.Errorf("%w: %w", ErrParameterRetrieval, err)
	}
	if !ok {
		return codegen.WordSet{}, nil
	}
	return codegen.ParseWordSet(raw), nil
}

// SetOffensiveWords normalises raw and writes it back to the parameter source.
func (s *voucherService) SetOffensiveWords(ctx context.Context, raw string) (codegen.WordSet, error) {
	words := codegen.ParseWordSet(raw)
	if err := s.params.Set(ctx, s.wordsPath, words.String()); err != nil {
		return codegen.WordSet{}, fmt.Errorf("set offensive words: %w", err)
	}
	s.logger.Info("offensive words updated", zap.Int("count", words.Len()))
	return words, nil
}

// ensure voucherService implements VoucherService
var _ VoucherService = (*voucherService)(nil)
