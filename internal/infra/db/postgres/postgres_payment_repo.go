package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentCols = `id, user_id, reference, amount, status, created_at, updated_at, paid_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Reference, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (id, user_id, reference, amount, status, created_at, updated_at, paid_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, reference=$3, amount=$4, status=$5, updated_at=$7, paid_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.Reference, p.Amount, p.Status, p.CreatedAt, p.UpdatedAt, p.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE reference=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) LatestByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// MarkSuccessIfPending flips the row atomically; the WHERE clause keeps the
// status monotonic under concurrent webhook deliveries.
func (r *paymentRepo) MarkSuccessIfPending(ctx context.Context, tx repository.Tx, reference string, paidAt time.Time) (bool, error) {
	const q = `
UPDATE payments
   SET status = $2, paid_at = $3, updated_at = NOW()
 WHERE reference = $1
   AND status = $4;`

	cmd, err := execSQL(ctx, r.pool, tx, q, reference, model.PaymentStatusSuccess, paidAt, model.PaymentStatusPending)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + paymentCols + ` FROM payments WHERE status=$1 AND created_at < $2 ORDER BY created_at ASC LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, model.PaymentStatusPending, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p := new(model.Payment)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Reference, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentRepo) UserIDsWithSuccess(ctx context.Context, tx repository.Tx) ([]string, error) {
	const q = `SELECT DISTINCT user_id FROM payments WHERE status='success';`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, id)
	}
	return out, nil
}

func (r *paymentRepo) SumSucceededByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='success' AND paid_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *paymentRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.PaymentStatus) (int, error) {
	const q = `SELECT COUNT(*) FROM payments WHERE status=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, status)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
