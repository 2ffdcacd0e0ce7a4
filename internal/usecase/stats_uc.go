package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Revenue(ctx context.Context) (day int64, week int64, month int64, err error)
	PaymentCounts(ctx context.Context) (pending int, success int, err error)
}

type statsUC struct {
	payments repository.PaymentRepository

	log *zerolog.Logger
}

func NewStatsUseCase(payments repository.PaymentRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{payments: payments, log: logger}
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	d, err := s.payments.SumSucceededByPeriod(ctx, repository.NoTX, "day")
	if err != nil {
		return 0, 0, 0, err
	}
	w, err := s.payments.SumSucceededByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.payments.SumSucceededByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	return d, w, m, nil
}

func (s *statsUC) PaymentCounts(ctx context.Context) (int, int, error) {
	pending, err := s.payments.CountByStatus(ctx, repository.NoTX, model.PaymentStatusPending)
	if err != nil {
		return 0, 0, err
	}
	success, err := s.payments.CountByStatus(ctx, repository.NoTX, model.PaymentStatusSuccess)
	if err != nil {
		return 0, 0, err
	}
	return pending, success, nil
}
