package repository

import (
	"context"
	"time"

	"smallbiz-billing/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Payment, error)
	// LatestByUser returns the most recently created payment for the account,
	// regardless of status.
	LatestByUser(ctx context.Context, tx Tx, userID string) (*model.Payment, error)
	// MarkSuccessIfPending flips the record to success only when it is still
	// pending; reports whether this call performed the flip. The status is
	// monotonic: a success record is never written back to pending.
	MarkSuccessIfPending(ctx context.Context, tx Tx, reference string, paidAt time.Time) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	// UserIDsWithSuccess lists distinct accounts holding at least one
	// successful payment.
	UserIDsWithSuccess(ctx context.Context, tx Tx) ([]string, error)
	// SumSucceededByPeriod totals successful payments since the start of the
	// current day/week/month/year (period is a Postgres DATE_TRUNC field).
	SumSucceededByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
	CountByStatus(ctx context.Context, tx Tx, status model.PaymentStatus) (int, error)
}
