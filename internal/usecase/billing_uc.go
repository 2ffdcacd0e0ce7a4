package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"smallbiz-billing/internal/config"
	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/adapter"
	"smallbiz-billing/internal/domain/ports/repository"
	"smallbiz-billing/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

type BillingUseCase interface {
	// Initiate creates a hosted checkout session for the pro upgrade and
	// stores a pending payment record keyed by a fresh reference.
	Initiate(ctx context.Context, userID string) (authorizationURL, reference string, err error)
	// GrantPro is the reconciler: verifies the reference with the gateway,
	// cross-checks it against the stored payment record and promotes the
	// account's entitlement. Business-rule failures come back as the domain
	// sentinel errors (ErrVerifyFailed ... ErrUpdateFailed).
	GrantPro(ctx context.Context, reference string) (userID string, err error)
	// Recheck is the self-service escape hatch for accounts whose redirect or
	// webhook was lost: it re-derives truth from the gateway for the account's
	// most recent payment.
	Recheck(ctx context.Context, userID string) (message string, err error)
	// SyncPaidToPro promotes every account holding a successful payment whose
	// profile is still on free. Admin-triggered bulk repair.
	SyncPaidToPro(ctx context.Context) (updated, total int, err error)
}

type billingUC struct {
	payments    repository.PaymentRepository
	profiles    repository.ProfileRepository
	gateway     adapter.PaymentGateway
	notifier    adapter.OperatorNotifier
	tm          repository.TransactionManager
	billing     config.BillingConfig
	callbackURL string
	log         *zerolog.Logger
}

func NewBillingUseCase(
	payments repository.PaymentRepository,
	profiles repository.ProfileRepository,
	gateway adapter.PaymentGateway,
	notifier adapter.OperatorNotifier,
	tm repository.TransactionManager,
	billing config.BillingConfig,
	callbackURL string,
	logger *zerolog.Logger,
) *billingUC {
	compLog := logger.With().Str("component", "BillingUC").Logger()
	return &billingUC{
		payments:    payments,
		profiles:    profiles,
		gateway:     gateway,
		notifier:    notifier,
		tm:          tm,
		billing:     billing,
		callbackURL: callbackURL,
		log:         &compLog,
	}
}

func (u *billingUC) Initiate(ctx context.Context, userID string) (string, string, error) {
	prof, err := u.profiles.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return "", "", err
	}
	if prof.Plan == model.PlanPro {
		return "", "", domain.ErrAlreadyPro
	}
	email := strings.TrimSpace(prof.Email)
	if email == "" {
		return "", "", domain.ErrNoBillingEmail
	}

	reference := fmt.Sprintf("pro-%s-%d", userID, time.Now().UnixMilli())
	authURL, err := u.gateway.Initialize(ctx, email, u.billing.ProAmount, u.billing.Currency, reference, u.callbackURL, userID)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	p := &model.Payment{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Reference: reference,
		Amount:    u.billing.ProAmount,
		Status:    model.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return "", "", err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().Str("reference", reference).Str("user_id", userID).Msg("checkout initiated")
	return authURL, reference, nil
}

func (u *billingUC) GrantPro(ctx context.Context, reference string) (string, error) {
	start := time.Now()
	userID, err := u.grantPro(ctx, reference)
	result, reason := "ok", ""
	if err != nil {
		result, reason = "fail", GrantFailureReason(err)
	}
	metrics.IncGrant(result, reason)
	metrics.ObserveGrantDuration(result, time.Since(start).Seconds())
	return userID, err
}

func (u *billingUC) grantPro(ctx context.Context, reference string) (string, error) {
	res, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		u.log.Warn().Err(err).Str("reference", reference).Msg("gateway verify unreachable")
		return "", domain.ErrVerifyFailed
	}
	if !res.Succeeded {
		return "", domain.ErrVerifyFailed
	}

	// The metadata attached at checkout time is the authoritative link between
	// the gateway's transaction and the local account.
	if res.UserID == "" {
		return "", domain.ErrMetadataMissing
	}
	verifiedRef := res.Reference
	if verifiedRef == "" {
		verifiedRef = reference
	}

	p, err := u.payments.FindByReference(ctx, repository.NoTX, verifiedRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrPaymentNotFound
		}
		return "", err
	}
	if p.UserID != res.UserID {
		return "", domain.ErrUserMismatch
	}
	// Stored amounts are in major units; the gateway reports minor units.
	if res.AmountMinor != p.Amount*100 {
		return "", domain.ErrAmountMismatch
	}
	if !currencyMatches(res.Currency, u.billing.Currency) {
		return "", domain.ErrCurrencyMismatch
	}

	now := time.Now()
	firstTime := p.Status != model.PaymentStatusSuccess
	if firstTime {
		flipped, err := u.payments.MarkSuccessIfPending(ctx, repository.NoTX, verifiedRef, now)
		if err != nil {
			// Verification already passed; the entitlement write below is the
			// one the caller cares about. A re-delivery or the sweeper will
			// retry the payment flip.
			u.log.Warn().Err(err).Str("reference", verifiedRef).Msg("payment status write failed")
		} else {
			firstTime = flipped
		}
		if firstTime {
			metrics.IncPayment(string(model.PaymentStatusSuccess))
			metrics.AddPaymentRevenue(u.billing.Currency, p.Amount)
		}
	}

	end := now.AddDate(0, 1, 0)
	if err := u.profiles.UpdateEntitlement(ctx, repository.NoTX, res.UserID, model.PlanPro, now, end); err != nil {
		u.log.Error().Err(err).Str("reference", verifiedRef).Str("user_id", res.UserID).Msg("entitlement update failed")
		return "", domain.ErrUpdateFailed
	}

	if firstTime {
		u.notifyProGrant(ctx, res.UserID, verifiedRef, end)
	}
	u.log.Info().Str("reference", verifiedRef).Str("user_id", res.UserID).Time("subscription_end", end).Msg("pro granted")
	return res.UserID, nil
}

// notifyProGrant is best-effort: a notification failure never fails the grant.
func (u *billingUC) notifyProGrant(ctx context.Context, userID, reference string, end time.Time) {
	if u.notifier == nil {
		return
	}
	email := "unknown"
	if prof, err := u.profiles.FindByID(ctx, repository.NoTX, userID); err == nil && prof.Email != "" {
		email = prof.Email
	}
	grant := adapter.ProGrant{
		UserID:        userID,
		CustomerEmail: email,
		Reference:     reference,
		WindowEnd:     end,
	}
	if err := u.notifier.NotifyProGrant(ctx, grant); err != nil {
		u.log.Warn().Err(err).Str("reference", reference).Msg("operator notification failed")
	}
}

func (u *billingUC) Recheck(ctx context.Context, userID string) (string, error) {
	prof, err := u.profiles.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return "", err
	}
	if prof.Plan == model.PlanPro {
		return "Already on Pro", nil
	}

	p, err := u.payments.LatestByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrPaymentNotFound
		}
		return "", err
	}

	// A successful record whose entitlement write was lost only needs the
	// window refreshed.
	if p.Status == model.PaymentStatusSuccess {
		now := time.Now()
		if err := u.profiles.UpdateEntitlement(ctx, repository.NoTX, userID, model.PlanPro, now, now.AddDate(0, 1, 0)); err != nil {
			return "", domain.ErrUpdateFailed
		}
		return "Subscription synced", nil
	}

	// Pending: run the same verification and cross-checks as any other entry
	// point, then make sure the grant landed on this account.
	grantedTo, err := u.GrantPro(ctx, p.Reference)
	if err != nil {
		return "", err
	}
	if grantedTo != userID {
		return "", domain.ErrUserMismatch
	}
	return "Subscription activated", nil
}

func (u *billingUC) SyncPaidToPro(ctx context.Context) (int, int, error) {
	ids, err := u.payments.UserIDsWithSuccess(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}

	updated, total := 0, 0
	// The bulk repair runs in one transaction so a half-applied promote never
	// goes live.
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		profiles, err := u.profiles.ListByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		now := time.Now()
		end := now.AddDate(0, 1, 0)
		for _, prof := range profiles {
			if prof.Plan == model.PlanPro {
				continue
			}
			total++
			if err := u.profiles.UpdateEntitlement(ctx, tx, prof.ID, model.PlanPro, now, end); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		u.log.Warn().Err(err).Msg("sync-paid-to-pro rolled back")
		return 0, 0, err
	}
	u.log.Info().Int("updated", updated).Int("total", total).Msg("sync-paid-to-pro finished")
	return updated, total, nil
}

// GrantFailureReason maps a GrantPro error to a bounded reason string, used
// for metric labels and redirect error codes.
func GrantFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrVerifyFailed):
		return "verify_failed"
	case errors.Is(err, domain.ErrMetadataMissing):
		return "metadata_missing"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return "payment_not_found"
	case errors.Is(err, domain.ErrUserMismatch):
		return "user_mismatch"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrUpdateFailed):
		return "update_failed"
	default:
		return "unknown"
	}
}
