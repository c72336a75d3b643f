//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MemPaymentRepo is a small in-memory payment ledger used by unit tests.
// TryComplete and MarkFailed are atomic under the mutex, mirroring the
// conditional UPDATE of the Postgres implementation.
type MemPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment // keyed by order reference

	CreatePendingFunc func(ctx context.Context, tx repository.Tx, p *model.Payment) error
}

func NewMemPaymentRepo() *MemPaymentRepo {
	return &MemPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MemPaymentRepo) CreatePending(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.CreatePendingFunc != nil {
		return m.CreatePendingFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.OrderReference]; ok {
		return domain.ErrDuplicateOrderRef
	}
	cp := *p
	m.store[p.OrderReference] = &cp
	return nil
}

func (m *MemPaymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, orderRef string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[orderRef]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemPaymentRepo) TryComplete(ctx context.Context, tx repository.Tx, orderRef, gatewayTransID string, method model.PaymentMethod) (bool, *model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[orderRef]
	if !ok {
		return false, nil, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		cp := *p
		return false, &cp, nil
	}
	now := time.Now()
	p.Status = model.PaymentStatusCompleted
	p.GatewayTransID = &gatewayTransID
	p.Method = method
	p.SettledAt = &now
	cp := *p
	return true, &cp, nil
}

func (m *MemPaymentRepo) MarkFailed(ctx context.Context, tx repository.Tx, orderRef, reason string) (bool, *model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[orderRef]
	if !ok {
		return false, nil, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		cp := *p
		return false, &cp, nil
	}
	now := time.Now()
	p.Status = model.PaymentStatusFailed
	p.FailReason = &reason
	p.SettledAt = &now
	cp := *p
	return true, &cp, nil
}

// MemSubscriptionRepo applies the same stacking upsert the Postgres repo
// performs in SQL, atomically under its mutex.
type MemSubscriptionRepo struct {
	mu          sync.Mutex
	store       map[string]*model.Subscription
	ExtendCalls int
}

func NewMemSubscriptionRepo() *MemSubscriptionRepo {
	return &MemSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MemSubscriptionRepo) Extend(ctx context.Context, tx repository.Tx, userID, planType string, durationDays int) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtendCalls++
	now := time.Now()
	s, ok := m.store[userID]
	if !ok {
		s = &model.Subscription{
			UserID:    userID,
			PlanType:  planType,
			StartTime: now,
			EndTime:   now.Add(time.Duration(durationDays) * 24 * time.Hour),
			Status:    model.SubscriptionStatusActive,
		}
		m.store[userID] = s
	} else {
		s.EndTime = s.ExtendedEnd(now, durationDays)
		s.PlanType = planType
		s.Status = model.SubscriptionStatusActive
	}
	cp := *s
	return &cp, nil
}

func (m *MemSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Seed installs a subscription row directly, bypassing Extend.
func (m *MemSubscriptionRepo) Seed(s *model.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.UserID] = &cp
}

type MemPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Plan
}

func NewMemPlanRepo() *MemPlanRepo {
	return &MemPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *MemPlanRepo) Put(p *model.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
}

func (m *MemPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	m.Put(p)
	return nil
}

func (m *MemPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemPlanRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Plan, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// MockGateway lets tests script the gateway's behavior per call.
type MockGateway struct {
	mu      sync.Mutex
	counter int

	CreateLinkFunc func(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error)
	VerifyIPNFunc  func(cb adapter.IPNCallback) bool
	OrderRefFunc   func(userID string) string
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) NewOrderReference(userID string) string {
	if g.OrderRefFunc != nil {
		return g.OrderRefFunc(userID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-ref-%d", userID, g.counter)
}

func (g *MockGateway) CreateLink(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error) {
	if g.CreateLinkFunc != nil {
		return g.CreateLinkFunc(ctx, req)
	}
	return &adapter.CreateLinkResult{PayURL: "https://pay.example.com/" + req.OrderReference, RequestID: "req-1"}, nil
}

func (g *MockGateway) VerifyIPN(cb adapter.IPNCallback) bool {
	if g.VerifyIPNFunc != nil {
		return g.VerifyIPNFunc(cb)
	}
	return true
}

// MockTxManager runs the callback without a real transaction; the in-memory
// repos are individually atomic, which is what the settlement tests need.
type MockTxManager struct{}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}
