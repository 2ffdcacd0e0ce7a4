package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/adapter"
	"smallbiz-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ InsightsUseCase = (*insightsUC)(nil)

const insightsSystemPrompt = "You are a small-business finance assistant. " +
	"Given a short summary of recent revenue and outstanding invoices, give " +
	"three concrete, plainly worded suggestions the owner can act on this week."

type InsightsUseCase interface {
	// BusinessInsights builds a revenue/receivables summary for the account
	// and asks the completion model for suggestions. Pro accounts only;
	// free accounts get ErrProRequired.
	BusinessInsights(ctx context.Context, userID, question string) (string, error)
}

type insightsUC struct {
	profiles  repository.ProfileRepository
	payments  repository.PaymentRepository
	invoices  repository.InvoiceRepository
	model     adapter.InsightModel
	maxTokens int
	log       *zerolog.Logger
}

func NewInsightsUseCase(
	profiles repository.ProfileRepository,
	payments repository.PaymentRepository,
	invoices repository.InvoiceRepository,
	model adapter.InsightModel,
	maxPromptTokens int,
	logger *zerolog.Logger,
) *insightsUC {
	compLog := logger.With().Str("component", "InsightsUC").Logger()
	return &insightsUC{
		profiles:  profiles,
		payments:  payments,
		invoices:  invoices,
		model:     model,
		maxTokens: maxPromptTokens,
		log:       &compLog,
	}
}

func (u *insightsUC) BusinessInsights(ctx context.Context, userID, question string) (string, error) {
	if u.model == nil {
		return "", fmt.Errorf("%w: no insight model configured", domain.ErrOperationFailed)
	}
	prof, err := u.profiles.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return "", err
	}
	if !model.HasAIInsights(prof.Plan) || !prof.ProActive(time.Now()) {
		return "", domain.ErrProRequired
	}

	prompt, err := u.buildPrompt(ctx, userID, question)
	if err != nil {
		return "", err
	}
	prompt = u.trimToBudget(prompt)

	answer, err := u.model.Complete(ctx, insightsSystemPrompt, prompt)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Str("model", u.model.Name()).Msg("insight completion failed")
		return "", fmt.Errorf("%w: insight completion", domain.ErrOperationFailed)
	}
	return answer, nil
}

func (u *insightsUC) buildPrompt(ctx context.Context, userID, question string) (string, error) {
	day, err := u.payments.SumSucceededByPeriod(ctx, repository.NoTX, "day")
	if err != nil {
		return "", err
	}
	week, err := u.payments.SumSucceededByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return "", err
	}
	month, err := u.payments.SumSucceededByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Revenue: today %d, this week %d, this month %d.\n", day, week, month)

	overdue, err := u.invoices.ListUnpaidDueOnOrBefore(ctx, repository.NoTX, startOfDayUTC(time.Now()), 50)
	if err != nil {
		return "", err
	}
	if len(overdue) == 0 {
		b.WriteString("No overdue invoices.\n")
	} else {
		fmt.Fprintf(&b, "Overdue invoices (%d):\n", len(overdue))
		for _, inv := range overdue {
			due := "unknown"
			if inv.DueDate != nil {
				due = inv.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "- %s: %d due %s (%s)\n", inv.Number, inv.Total, due, inv.CustomerName)
		}
	}

	if q := strings.TrimSpace(question); q != "" {
		fmt.Fprintf(&b, "\nOwner's question: %s\n", q)
	}
	return b.String(), nil
}

// trimToBudget cuts the prompt to the configured token budget, dropping whole
// trailing lines so invoice entries are never cut mid-row.
func (u *insightsUC) trimToBudget(prompt string) string {
	if u.maxTokens <= 0 {
		return prompt
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		u.log.Warn().Err(err).Msg("token encoding unavailable, sending prompt untrimmed")
		return prompt
	}
	if len(enc.Encode(prompt, nil, nil)) <= u.maxTokens {
		return prompt
	}
	lines := strings.Split(prompt, "\n")
	for len(lines) > 1 {
		lines = lines[:len(lines)-1]
		candidate := strings.Join(lines, "\n")
		if len(enc.Encode(candidate, nil, nil)) <= u.maxTokens {
			return candidate
		}
	}
	return lines[0]
}
