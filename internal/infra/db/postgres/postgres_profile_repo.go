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

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

const profileCols = `id, email, business_name, plan, subscription_start, subscription_end, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	if err := row.Scan(&p.ID, &p.Email, &p.BusinessName, &p.Plan, &p.SubscriptionStart, &p.SubscriptionEnd, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *profileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	q := `SELECT ` + profileCols + ` FROM profiles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

func (r *profileRepo) UpdateEntitlement(ctx context.Context, tx repository.Tx, id string, plan model.Plan, start, end time.Time) error {
	const q = `
UPDATE profiles
   SET plan = $2, subscription_start = $3, subscription_end = $4, updated_at = NOW()
 WHERE id = $1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, plan, start, end)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) ListProEndingBetween(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.Profile, error) {
	q := `SELECT ` + profileCols + ` FROM profiles
 WHERE plan='pro' AND subscription_end IS NOT NULL AND subscription_end >= $1 AND subscription_end < $2
 ORDER BY subscription_end ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, from, to)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func (r *profileRepo) ListByIDs(ctx context.Context, tx repository.Tx, ids []string) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + profileCols + ` FROM profiles WHERE id = ANY($1);`
	rows, err := queryRows(ctx, r.pool, tx, q, ids)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func collectProfiles(rows pgx.Rows) ([]*model.Profile, error) {
	var out []*model.Profile
	for rows.Next() {
		p := new(model.Profile)
		if err := rows.Scan(&p.ID, &p.Email, &p.BusinessName, &p.Plan, &p.SubscriptionStart, &p.SubscriptionEnd, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}
