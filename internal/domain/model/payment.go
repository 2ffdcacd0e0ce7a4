package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // created at checkout initiation, awaiting verification
	PaymentStatusSuccess PaymentStatus = "success" // verified against the gateway; terminal
)

// Payment records one checkout attempt against the payment gateway.
// Reference is the caller-generated idempotency key ("pro-<user>-<millis>")
// echoed back by the gateway on verification; it is the correlation handle
// between the local record and the gateway's transaction.
type Payment struct {
	ID        string // ULID, lexically sortable by creation time
	UserID    string // owner account (profile) ID
	Reference string // globally unique, caller-generated
	Amount    int64  // expected charge in major units of the billing currency
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time // set when the status flips to success
}
