//go:build !integration

package model

import (
	"testing"
	"time"
)

func TestCanCreateInvoice(t *testing.T) {
	if !CanCreateInvoice(PlanPro, 1000) {
		t.Error("pro has no invoice cap")
	}
	if !CanCreateInvoice(PlanFree, FreeInvoiceLimit-1) {
		t.Error("free under the cap should pass")
	}
	if CanCreateInvoice(PlanFree, FreeInvoiceLimit) {
		t.Error("free at the cap should be blocked")
	}
}

func TestPlanGates(t *testing.T) {
	for _, gate := range []func(Plan) bool{CanRemoveBranding, HasProfitDashboard, HasInventory, HasAIInsights} {
		if gate(PlanFree) {
			t.Error("free plan must not pass a pro gate")
		}
		if !gate(PlanPro) {
			t.Error("pro plan must pass every pro gate")
		}
	}
}

func TestProfileProActive(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name string
		p    Profile
		want bool
	}{
		{"pro with future end", Profile{Plan: PlanPro, SubscriptionEnd: &future}, true},
		{"pro with lapsed end", Profile{Plan: PlanPro, SubscriptionEnd: &past}, false},
		{"pro without a window", Profile{Plan: PlanPro}, false},
		{"free with future end", Profile{Plan: PlanFree, SubscriptionEnd: &future}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.ProActive(now); got != tc.want {
				t.Errorf("ProActive = %v, want %v", got, tc.want)
			}
		})
	}
}
