//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/adapter"
	"smallbiz-billing/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// MockTxManager executes the callback without a real transaction.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// =============================
// Repositories
// =============================

// MockPaymentRepo is a small in-memory implementation used by unit tests.
type MockPaymentRepo struct {
	mu    sync.RWMutex
	byRef map[string]*model.Payment

	// optional hooks to simulate failures
	SaveFunc                 func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	MarkSuccessIfPendingFunc func(ctx context.Context, tx repository.Tx, reference string, paidAt time.Time) (bool, error)
	SumByPeriodFunc          func(ctx context.Context, tx repository.Tx, period string) (int64, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byRef: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byRef[p.Reference] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byRef[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) LatestByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Payment
	for _, p := range m.byRef {
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockPaymentRepo) MarkSuccessIfPending(ctx context.Context, tx repository.Tx, reference string, paidAt time.Time) (bool, error) {
	if m.MarkSuccessIfPendingFunc != nil {
		return m.MarkSuccessIfPendingFunc(ctx, tx, reference, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byRef[reference]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusSuccess
	p.PaidAt = &paidAt
	p.UpdatedAt = paidAt
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.byRef {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) UserIDsWithSuccess(ctx context.Context, tx repository.Tx) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []string
	for _, p := range m.byRef {
		if p.Status != model.PaymentStatusSuccess {
			continue
		}
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	return out, nil
}

func (m *MockPaymentRepo) SumSucceededByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if m.SumByPeriodFunc != nil {
		return m.SumByPeriodFunc(ctx, tx, period)
	}
	return 0, nil
}

func (m *MockPaymentRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.PaymentStatus) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, p := range m.byRef {
		if p.Status == status {
			cnt++
		}
	}
	return cnt, nil
}

// MockProfileRepo backs accounts with a map and records entitlement writes.
type MockProfileRepo struct {
	mu   sync.RWMutex
	byID map[string]*model.Profile

	UpdateEntitlementFunc func(ctx context.Context, tx repository.Tx, id string, plan model.Plan, start, end time.Time) error
}

var _ repository.ProfileRepository = (*MockProfileRepo)(nil)

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{byID: make(map[string]*model.Profile)}
}

func (m *MockProfileRepo) Put(p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
}

func (m *MockProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepo) UpdateEntitlement(ctx context.Context, tx repository.Tx, id string, plan model.Plan, start, end time.Time) error {
	if m.UpdateEntitlementFunc != nil {
		return m.UpdateEntitlementFunc(ctx, tx, id, plan, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Plan = plan
	p.SubscriptionStart = &start
	p.SubscriptionEnd = &end
	return nil
}

func (m *MockProfileRepo) ListProEndingBetween(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Profile
	for _, p := range m.byID {
		if p.Plan != model.PlanPro || p.SubscriptionEnd == nil {
			continue
		}
		end := *p.SubscriptionEnd
		if !end.Before(from) && end.Before(to) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProfileRepo) ListByIDs(ctx context.Context, tx repository.Tx, ids []string) ([]*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Profile
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockInvoiceRepo serves a fixed invoice list.
type MockInvoiceRepo struct {
	Invoices []*model.Invoice
}

var _ repository.InvoiceRepository = (*MockInvoiceRepo)(nil)

func (m *MockInvoiceRepo) ListUnpaidDueOnOrBefore(ctx context.Context, tx repository.Tx, dueOn time.Time, limit int) ([]*model.Invoice, error) {
	var out []*model.Invoice
	for _, inv := range m.Invoices {
		if inv.Status == model.InvoiceStatusPaid || inv.DueDate == nil {
			continue
		}
		if !inv.DueDate.After(dueOn) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockInvoiceRepo) CountForUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	cnt := 0
	for _, inv := range m.Invoices {
		if inv.UserID == userID && !inv.CreatedAt.Before(since) {
			cnt++
		}
	}
	return cnt, nil
}

// =============================
// Adapters
// =============================

type MockGateway struct {
	InitializeFunc func(ctx context.Context, email string, amountMajor int64, currency, reference, callbackURL, userID string) (string, error)
	VerifyFunc     func(ctx context.Context, reference string) (adapter.VerifyResult, error)

	mu          sync.Mutex
	VerifyCalls []string
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Initialize(ctx context.Context, email string, amountMajor int64, currency, reference, callbackURL, userID string) (string, error) {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, email, amountMajor, currency, reference, callbackURL, userID)
	}
	return "https://checkout.example/" + reference, nil
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (adapter.VerifyResult, error) {
	m.mu.Lock()
	m.VerifyCalls = append(m.VerifyCalls, reference)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return adapter.VerifyResult{}, nil
}

type MockNotifier struct {
	mu     sync.Mutex
	Grants []adapter.ProGrant
	Err    error
}

var _ adapter.OperatorNotifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyProGrant(ctx context.Context, grant adapter.ProGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Grants = append(m.Grants, grant)
	return m.Err
}

type sentMail struct {
	To      string
	Subject string
}

type MockMailer struct {
	mu   sync.Mutex
	Sent []sentMail
	Err  error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject})
	return nil
}

type MockInsightModel struct {
	CompleteFunc func(ctx context.Context, system, prompt string) (string, error)
	Prompts      []string
}

var _ adapter.InsightModel = (*MockInsightModel)(nil)

func (m *MockInsightModel) Name() string { return "mock" }

func (m *MockInsightModel) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}
	return "do the thing", nil
}
