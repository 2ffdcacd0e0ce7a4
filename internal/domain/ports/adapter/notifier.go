package adapter

import (
	"context"
	"time"
)

// ProGrant describes a first-time pro upgrade for operator notification.
type ProGrant struct {
	UserID        string
	CustomerEmail string
	Reference     string
	WindowEnd     time.Time
}

// OperatorNotifier tells the operators about notable billing events.
// Delivery is best-effort: the reconciler logs a returned error and moves on.
type OperatorNotifier interface {
	NotifyProGrant(ctx context.Context, grant ProGrant) error
}
