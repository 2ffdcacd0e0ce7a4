package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// Billing/initiation errors
	ErrAlreadyPro     = errors.New("account is already on the pro plan")
	ErrNoBillingEmail = errors.New("no billing email found for this account")
	ErrProRequired    = errors.New("pro plan required")

	// Reconciliation failure reasons. The reconciler returns exactly one of
	// these for an expected business-rule failure; entry points map them to
	// their protocol (redirect query param, webhook log line, JSON body).
	ErrVerifyFailed     = errors.New("gateway did not report a successful charge")
	ErrMetadataMissing  = errors.New("gateway metadata is missing the account link")
	ErrPaymentNotFound  = errors.New("no payment record for this reference")
	ErrUserMismatch     = errors.New("payment record belongs to a different account")
	ErrAmountMismatch   = errors.New("charged amount does not match the expected amount")
	ErrCurrencyMismatch = errors.New("charged currency does not match the billing currency")
	ErrUpdateFailed     = errors.New("entitlement update failed after verification")
)
