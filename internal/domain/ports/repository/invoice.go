package repository

import (
	"context"
	"time"

	"smallbiz-billing/internal/domain/model"
)

type InvoiceRepository interface {
	// ListUnpaidDueOnOrBefore returns unpaid/partial invoices whose due date
	// is on or before the given day, for the reminder scan.
	ListUnpaidDueOnOrBefore(ctx context.Context, tx Tx, dueOn time.Time, limit int) ([]*model.Invoice, error)
	CountForUserSince(ctx context.Context, tx Tx, userID string, since time.Time) (int, error)
}
