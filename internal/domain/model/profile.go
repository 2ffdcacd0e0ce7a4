package model

import "time"

// Profile carries the account identity plus its entitlement state.
// The entitlement window is refreshed on every successful grant: start is set
// to the grant time and end to one calendar month later. A renewal therefore
// resets the window from "now" rather than extending the previous expiry.
type Profile struct {
	ID                string
	Email             string
	BusinessName      string
	Plan              Plan
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProActive reports whether the profile is on pro with a window that has not
// yet lapsed at the given instant. Expiry is not enforced anywhere in this
// subsystem; there is no automatic downgrade transition.
func (p *Profile) ProActive(at time.Time) bool {
	return p.Plan == PlanPro && p.SubscriptionEnd != nil && p.SubscriptionEnd.After(at)
}
