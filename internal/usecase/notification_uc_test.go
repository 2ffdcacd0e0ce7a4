//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/usecase"
)

func dayUTC(offsetDays int) time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offsetDays)
}

func proProfileEnding(id string, end time.Time) *model.Profile {
	e := end
	return &model.Profile{
		ID:              id,
		Email:           id + "@example.com",
		BusinessName:    "Shop " + id,
		Plan:            model.PlanPro,
		SubscriptionEnd: &e,
	}
}

func TestNotificationUseCase_SendRenewalReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("reminds at the 7, 3 and 1 day marks only", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		profiles.Put(proProfileEnding("u7", dayUTC(7).Add(10*time.Hour)))
		profiles.Put(proProfileEnding("u3", dayUTC(3).Add(2*time.Hour)))
		profiles.Put(proProfileEnding("u1", dayUTC(1)))
		profiles.Put(proProfileEnding("u5", dayUTC(5))) // off-mark, skipped
		// free account with an end date, never reminded
		free := proProfileEnding("ufree", dayUTC(3))
		free.Plan = model.PlanFree
		profiles.Put(free)

		mailer := &MockMailer{}
		uc := usecase.NewNotificationUseCase(profiles, &MockInvoiceRepo{}, mailer, newTestLogger())

		sent, err := uc.SendRenewalReminders(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent != 3 {
			t.Fatalf("sent = %d, want 3", sent)
		}
		got := map[string]bool{}
		for _, m := range mailer.Sent {
			got[m.To] = true
		}
		for _, want := range []string{"u7@example.com", "u3@example.com", "u1@example.com"} {
			if !got[want] {
				t.Errorf("missing reminder for %s", want)
			}
		}
	})

	t.Run("mailer errors are counted out but do not abort the scan", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		profiles.Put(proProfileEnding("u3", dayUTC(3)))

		mailer := &MockMailer{Err: errors.New("provider down")}
		uc := usecase.NewNotificationUseCase(profiles, &MockInvoiceRepo{}, mailer, newTestLogger())

		sent, err := uc.SendRenewalReminders(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent != 0 {
			t.Errorf("sent = %d, want 0", sent)
		}
	})
}

func TestNotificationUseCase_SendOverdueInvoiceReminders(t *testing.T) {
	ctx := context.Background()

	due := func(offsetDays int) *time.Time {
		d := dayUTC(offsetDays)
		return &d
	}

	invoices := &MockInvoiceRepo{Invoices: []*model.Invoice{
		{ID: "i0", Number: "INV-001", CustomerName: "Bola", CustomerEmail: "bola@example.com", Total: 5000, Status: model.InvoiceStatusUnpaid, DueDate: due(0)},
		{ID: "i3", Number: "INV-002", CustomerName: "Chidi", CustomerEmail: "chidi@example.com", Total: 1200, Status: model.InvoiceStatusPartial, DueDate: due(-3)},
		{ID: "i7", Number: "INV-003", CustomerName: "Dayo", CustomerEmail: "dayo@example.com", Total: 900, Status: model.InvoiceStatusUnpaid, DueDate: due(-7)},
		{ID: "i5", Number: "INV-004", CustomerName: "Efe", CustomerEmail: "efe@example.com", Total: 300, Status: model.InvoiceStatusUnpaid, DueDate: due(-5)},  // off-mark
		{ID: "ip", Number: "INV-005", CustomerName: "Femi", CustomerEmail: "femi@example.com", Total: 800, Status: model.InvoiceStatusPaid, DueDate: due(-3)}, // settled
		{ID: "ie", Number: "INV-006", CustomerName: "Gozie", CustomerEmail: "", Total: 100, Status: model.InvoiceStatusUnpaid, DueDate: due(-3)},              // no email
	}}

	mailer := &MockMailer{}
	uc := usecase.NewNotificationUseCase(NewMockProfileRepo(), invoices, mailer, newTestLogger())

	sent, err := uc.SendOverdueInvoiceReminders(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent != 3 {
		t.Fatalf("sent = %d, want 3 (due today, 3 days and 7 days overdue)", sent)
	}
	got := map[string]bool{}
	for _, m := range mailer.Sent {
		got[m.To] = true
	}
	for _, want := range []string{"bola@example.com", "chidi@example.com", "dayo@example.com"} {
		if !got[want] {
			t.Errorf("missing reminder for %s", want)
		}
	}
}
