package adapter

import "context"

// VerifyResult is the provider-agnostic outcome of a gateway verification.
// Succeeded=false with a nil error means the gateway answered but did not
// report a successful charge; callers treat that as a business outcome, not
// an infrastructure failure.
type VerifyResult struct {
	Succeeded   bool
	Reference   string // reference echoed back by the gateway
	AmountMinor int64  // charged amount in the currency's minor unit
	Currency    string // currency code as reported by the gateway
	UserID      string // account link from checkout-time metadata; empty if absent
}

// PaymentGateway is the port for the hosted-checkout payment provider.
type PaymentGateway interface {
	Name() string

	// Initialize creates a hosted checkout session and returns the URL the
	// browser is sent to. The amount is given in major units; conversion to
	// the provider's minor unit happens inside the adapter. userID is attached
	// as checkout metadata so verification can re-derive the account link.
	Initialize(ctx context.Context, email string, amountMajor int64, currency, reference, callbackURL, userID string) (authorizationURL string, err error)

	// Verify looks up a transaction by reference. Transport-level failures
	// return an error; a reachable gateway that reports a non-successful
	// charge returns Succeeded=false.
	Verify(ctx context.Context, reference string) (VerifyResult, error)
}
