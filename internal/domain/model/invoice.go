package model

import "time"

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice is the slice of the invoicing data the billing subsystem needs:
// due-date scanning for payment reminders and per-month counts for the free
// plan gate. The full invoicing CRUD lives with the web frontend.
type Invoice struct {
	ID            string
	UserID        string
	Number        string
	CustomerName  string
	CustomerEmail string
	Total         int64 // major units
	Status        InvoiceStatus
	DueDate       *time.Time
	CreatedAt     time.Time
}
