package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"smallbiz-billing/internal/domain/ports/repository"
	"smallbiz-billing/internal/infra/metrics"
	"smallbiz-billing/internal/usecase"
)

// PaymentSweeper periodically scans for stale pending payments and tries to
// finalize them through the same verification path the webhook uses. This
// covers lost webhook deliveries and browsers closed before the redirect.
type PaymentSweeper struct {
	billingUC  usecase.BillingUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentSweeper(billingUC usecase.BillingUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	compLog := logger.With().Str("component", "PaymentSweeper").Logger()
	return &PaymentSweeper{
		billingUC:  billingUC,
		payments:   payments,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &compLog,
	}
}

func (w *PaymentSweeper) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment sweeper")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment sweeper")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentSweeper) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		metrics.IncSweep("error")
		w.log.Error().Err(err).Msg("list pending failed")
		return
	}
	for _, p := range pending {
		if p.Reference == "" {
			continue
		}
		// A payment the gateway never saw succeed stays pending; that is the
		// expected steady state for abandoned checkouts, not a worker error.
		if _, err := w.billingUC.GrantPro(ctx, p.Reference); err != nil {
			metrics.IncSweep("skipped")
			w.log.Debug().Err(err).Str("reference", p.Reference).Msg("sweep verification did not promote")
			continue
		}
		metrics.IncSweep("granted")
		w.log.Info().Str("reference", p.Reference).Msg("stale payment reconciled")
	}
}
