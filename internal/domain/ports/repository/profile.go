package repository

import (
	"context"
	"time"

	"smallbiz-billing/internal/domain/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Profile, error)
	// UpdateEntitlement sets the plan tier and subscription window in one
	// write. This is the only mutation the billing subsystem performs on
	// profiles.
	UpdateEntitlement(ctx context.Context, tx Tx, id string, plan model.Plan, start, end time.Time) error
	// ListProEndingBetween returns pro profiles whose subscription window ends
	// inside [from, to), for expiry reminders.
	ListProEndingBetween(ctx context.Context, tx Tx, from, to time.Time) ([]*model.Profile, error)
	ListByIDs(ctx context.Context, tx Tx, ids []string) ([]*model.Profile, error)
}
