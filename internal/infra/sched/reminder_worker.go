package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"smallbiz-billing/internal/usecase"
)

type ReminderWorker struct {
	interval time.Duration
	notifUC  usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		notifUC:  notifUC,
		log:      &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runChecks(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runChecks(ctx)
		}
	}
}

func (w *ReminderWorker) runChecks(ctx context.Context) {
	sent, err := w.notifUC.SendRenewalReminders(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("renewal reminder scan failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("renewal reminders sent")
	}

	sent, err = w.notifUC.SendOverdueInvoiceReminders(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("overdue invoice scan failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("overdue invoice reminders sent")
	}
}
