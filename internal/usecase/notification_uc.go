package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"smallbiz-billing/internal/domain/ports/adapter"
	"smallbiz-billing/internal/domain/ports/repository"
	"smallbiz-billing/internal/infra/metrics"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// renewalOffsets are the days-before-expiry marks a renewal reminder goes out
// on. overdueOffsets are the days-past-due marks an invoice reminder goes out
// on.
var (
	renewalOffsets = []int{7, 3, 1}
	overdueOffsets = []int{0, 3, 7}
)

type NotificationUseCase interface {
	// SendRenewalReminders emails pro accounts whose subscription window ends
	// exactly 7, 3 or 1 days from today. Returns how many emails went out.
	SendRenewalReminders(ctx context.Context) (int, error)
	// SendOverdueInvoiceReminders emails invoice customers on the day an
	// invoice falls due and again 3 and 7 days later. Returns how many emails
	// went out.
	SendOverdueInvoiceReminders(ctx context.Context) (int, error)
}

type notificationUC struct {
	profiles repository.ProfileRepository
	invoices repository.InvoiceRepository
	mailer   adapter.Mailer
	log      *zerolog.Logger
}

func NewNotificationUseCase(
	profiles repository.ProfileRepository,
	invoices repository.InvoiceRepository,
	mailer adapter.Mailer,
	logger *zerolog.Logger,
) *notificationUC {
	compLog := logger.With().Str("component", "NotificationUC").Logger()
	return &notificationUC{profiles: profiles, invoices: invoices, mailer: mailer, log: &compLog}
}

// startOfDayUTC truncates to a calendar day so reminder marks compare dates,
// not instants.
func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (n *notificationUC) SendRenewalReminders(ctx context.Context) (int, error) {
	today := startOfDayUTC(time.Now())
	sent := 0
	for _, days := range renewalOffsets {
		day := today.AddDate(0, 0, days)
		profiles, err := n.profiles.ListProEndingBetween(ctx, repository.NoTX, day, day.AddDate(0, 0, 1))
		if err != nil {
			return sent, err
		}
		for _, prof := range profiles {
			if prof.Email == "" || prof.SubscriptionEnd == nil {
				continue
			}
			subject := fmt.Sprintf("Your Pro plan renews in %d day(s)", days)
			text := fmt.Sprintf(
				"Hi %s,\n\nYour Pro subscription ends on %s. Renew from your dashboard to keep Pro features.\n",
				prof.BusinessName, prof.SubscriptionEnd.Format("2006-01-02"),
			)
			if err := n.mailer.Send(ctx, prof.Email, subject, "", text); err != nil {
				n.log.Warn().Err(err).Str("user_id", prof.ID).Msg("renewal reminder failed")
				metrics.IncReminder("subscription", "error")
				continue
			}
			metrics.IncReminder("subscription", "sent")
			sent++
		}
	}
	n.log.Info().Int("sent", sent).Msg("renewal reminders finished")
	return sent, nil
}

func (n *notificationUC) SendOverdueInvoiceReminders(ctx context.Context) (int, error) {
	today := startOfDayUTC(time.Now())
	invoices, err := n.invoices.ListUnpaidDueOnOrBefore(ctx, repository.NoTX, today, 500)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, inv := range invoices {
		if inv.CustomerEmail == "" || inv.DueDate == nil {
			continue
		}
		overdueDays := int(today.Sub(startOfDayUTC(*inv.DueDate)).Hours() / 24)
		if !onOffset(overdueDays, overdueOffsets) {
			continue
		}

		subject := fmt.Sprintf("Invoice %s is due", inv.Number)
		if overdueDays > 0 {
			subject = fmt.Sprintf("Invoice %s is %d day(s) overdue", inv.Number, overdueDays)
		}
		text := fmt.Sprintf(
			"Hi %s,\n\nInvoice %s for %d was due on %s. Please arrange payment.\n",
			inv.CustomerName, inv.Number, inv.Total, inv.DueDate.Format("2006-01-02"),
		)
		if err := n.mailer.Send(ctx, inv.CustomerEmail, subject, "", text); err != nil {
			n.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("overdue reminder failed")
			metrics.IncReminder("invoice", "error")
			continue
		}
		metrics.IncReminder("invoice", "sent")
		sent++
	}
	n.log.Info().Int("sent", sent).Msg("overdue invoice reminders finished")
	return sent, nil
}

func onOffset(days int, offsets []int) bool {
	for _, o := range offsets {
		if days == o {
			return true
		}
	}
	return false
}
