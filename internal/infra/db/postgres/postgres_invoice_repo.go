package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/repository"
)

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

type invoiceRepo struct{ pool *pgxpool.Pool }

func NewInvoiceRepo(pool *pgxpool.Pool) *invoiceRepo {
	return &invoiceRepo{pool: pool}
}

func (r *invoiceRepo) ListUnpaidDueOnOrBefore(ctx context.Context, tx repository.Tx, dueOn time.Time, limit int) ([]*model.Invoice, error) {
	if limit <= 0 {
		limit = 200
	}
	const q = `
SELECT id, user_id, number, customer_name, customer_email, total, status, due_date, created_at
  FROM invoices
 WHERE status IN ('unpaid','partial') AND due_date IS NOT NULL AND due_date <= $1
 ORDER BY due_date ASC
 LIMIT $2;`

	rows, err := queryRows(ctx, r.pool, tx, q, dueOn, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Invoice
	for rows.Next() {
		inv := new(model.Invoice)
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Number, &inv.CustomerName, &inv.CustomerEmail, &inv.Total, &inv.Status, &inv.DueDate, &inv.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *invoiceRepo) CountForUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM invoices WHERE user_id=$1 AND created_at >= $2;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, since)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
