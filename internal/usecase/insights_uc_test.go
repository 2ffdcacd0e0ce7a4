//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/repository"
	"smallbiz-billing/internal/usecase"
)

func activeProProfile(id string) *model.Profile {
	end := time.Now().AddDate(0, 1, 0)
	start := time.Now().AddDate(0, 0, -1)
	return &model.Profile{
		ID:                id,
		Email:             id + "@example.com",
		Plan:              model.PlanPro,
		SubscriptionStart: &start,
		SubscriptionEnd:   &end,
	}
}

func TestInsightsUseCase_BusinessInsights(t *testing.T) {
	ctx := context.Background()

	t.Run("free account is gated", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		profiles.Put(&model.Profile{ID: "u1", Plan: model.PlanFree})

		uc := usecase.NewInsightsUseCase(profiles, NewMockPaymentRepo(), &MockInvoiceRepo{}, &MockInsightModel{}, 0, newTestLogger())
		_, err := uc.BusinessInsights(ctx, "u1", "")
		if !errors.Is(err, domain.ErrProRequired) {
			t.Fatalf("expected ErrProRequired, got %v", err)
		}
	})

	t.Run("lapsed pro window is gated", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		p := activeProProfile("u1")
		lapsed := time.Now().AddDate(0, -1, 0)
		p.SubscriptionEnd = &lapsed
		profiles.Put(p)

		uc := usecase.NewInsightsUseCase(profiles, NewMockPaymentRepo(), &MockInvoiceRepo{}, &MockInsightModel{}, 0, newTestLogger())
		_, err := uc.BusinessInsights(ctx, "u1", "")
		if !errors.Is(err, domain.ErrProRequired) {
			t.Fatalf("expected ErrProRequired, got %v", err)
		}
	})

	t.Run("prompt carries revenue figures and the owner's question", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		profiles.Put(activeProProfile("u1"))

		payments := NewMockPaymentRepo()
		payments.SumByPeriodFunc = func(ctx context.Context, tx repository.Tx, period string) (int64, error) {
			switch period {
			case "day":
				return 100, nil
			case "week":
				return 700, nil
			default:
				return 3000, nil
			}
		}

		m := &MockInsightModel{}
		uc := usecase.NewInsightsUseCase(profiles, payments, &MockInvoiceRepo{}, m, 0, newTestLogger())

		answer, err := uc.BusinessInsights(ctx, "u1", "should I chase debtors?")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if answer == "" {
			t.Error("expected a non-empty answer")
		}
		if len(m.Prompts) != 1 {
			t.Fatalf("expected 1 completion call, got %d", len(m.Prompts))
		}
		prompt := m.Prompts[0]
		for _, frag := range []string{"today 100", "this week 700", "this month 3000", "should I chase debtors?"} {
			if !strings.Contains(prompt, frag) {
				t.Errorf("prompt missing %q:\n%s", frag, prompt)
			}
		}
	})

	t.Run("model failure maps to operation failed", func(t *testing.T) {
		profiles := NewMockProfileRepo()
		profiles.Put(activeProProfile("u1"))

		m := &MockInsightModel{CompleteFunc: func(ctx context.Context, system, prompt string) (string, error) {
			return "", errors.New("rate limited")
		}}
		uc := usecase.NewInsightsUseCase(profiles, NewMockPaymentRepo(), &MockInvoiceRepo{}, m, 0, newTestLogger())

		_, err := uc.BusinessInsights(ctx, "u1", "")
		if !errors.Is(err, domain.ErrOperationFailed) {
			t.Fatalf("expected ErrOperationFailed, got %v", err)
		}
	})
}
