//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/usecase"
)

type paymentUCTestDeps struct {
	payments *MemPaymentRepo
	plans    *MemPlanRepo
	gateway  *MockGateway
}

func newPaymentUCDeps() *paymentUCTestDeps {
	return &paymentUCTestDeps{
		payments: NewMemPaymentRepo(),
		plans:    NewMemPlanRepo(),
		gateway:  &MockGateway{},
	}
}

func TestPaymentUseCase_CreateLink(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	plan := &model.Plan{ID: "plan-premium", Name: "Premium", Price: 199000, DurationDays: 30}

	t.Run("creates a pending payment and returns the pay url", func(t *testing.T) {
		deps := newPaymentUCDeps()
		deps.plans.Put(plan)

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		p, payURL, err := uc.CreateLink(ctx, "user-1", "plan-premium", 199000, "Premium 30d")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if payURL == "" {
			t.Error("expected a pay url")
		}
		if p.Status != model.PaymentStatusPending {
			t.Errorf("expected status pending, got %s", p.Status)
		}
		if p.Amount != 199000 {
			t.Errorf("expected amount 199000, got %d", p.Amount)
		}

		stored, err := deps.payments.FindByOrderRef(ctx, nil, p.OrderReference)
		if err != nil {
			t.Fatalf("pending row not persisted: %v", err)
		}
		if stored.Status != model.PaymentStatusPending {
			t.Errorf("stored status %s", stored.Status)
		}
	})

	t.Run("rejects unknown plan before contacting the gateway", func(t *testing.T) {
		deps := newPaymentUCDeps()
		gatewayCalled := false
		deps.gateway.CreateLinkFunc = func(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error) {
			gatewayCalled = true
			return nil, nil
		}

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		_, _, err := uc.CreateLink(ctx, "user-1", "no-such-plan", 199000, "x")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if gatewayCalled {
			t.Error("gateway must not be called for an unknown plan")
		}
	})

	t.Run("rejects amount that does not match plan price", func(t *testing.T) {
		deps := newPaymentUCDeps()
		deps.plans.Put(plan)
		gatewayCalled := false
		deps.gateway.CreateLinkFunc = func(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error) {
			gatewayCalled = true
			return nil, nil
		}

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		_, _, err := uc.CreateLink(ctx, "user-1", "plan-premium", 100, "x")
		if !errors.Is(err, domain.ErrAmountMismatch) {
			t.Fatalf("expected ErrAmountMismatch, got %v", err)
		}
		if gatewayCalled {
			t.Error("gateway must not be called on amount mismatch")
		}
	})

	t.Run("gateway decline leaves no row behind", func(t *testing.T) {
		deps := newPaymentUCDeps()
		deps.plans.Put(plan)
		deps.gateway.CreateLinkFunc = func(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error) {
			return nil, fmt.Errorf("momo create: code 41: order id exists: %w", domain.ErrGatewayDeclined)
		}

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		_, _, err := uc.CreateLink(ctx, "user-1", "plan-premium", 199000, "x")
		if !errors.Is(err, domain.ErrGatewayDeclined) {
			t.Fatalf("expected ErrGatewayDeclined, got %v", err)
		}
		if _, err := deps.payments.FindByOrderRef(ctx, nil, "user-1-ref-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Error("no payment row may exist after a declined create")
		}
	})

	t.Run("regenerates the order reference on a duplicate", func(t *testing.T) {
		deps := newPaymentUCDeps()
		deps.plans.Put(plan)

		attempts := 0
		deps.payments.CreatePendingFunc = func(ctx context.Context, tx repository.Tx, p *model.Payment) error {
			attempts++
			if attempts == 1 {
				return domain.ErrDuplicateOrderRef
			}
			return nil
		}

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		p, _, err := uc.CreateLink(ctx, "user-1", "plan-premium", 199000, "x")
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("expected 2 persist attempts, got %d", attempts)
		}
		if p.OrderReference == "user-1-ref-1" {
			t.Error("expected a fresh order reference on retry")
		}
	})

	t.Run("gives up after exhausting reference attempts", func(t *testing.T) {
		deps := newPaymentUCDeps()
		deps.plans.Put(plan)
		deps.payments.CreatePendingFunc = func(ctx context.Context, tx repository.Tx, p *model.Payment) error {
			return domain.ErrDuplicateOrderRef
		}

		uc := usecase.NewPaymentUseCase(deps.payments, deps.plans, deps.gateway, logger)

		_, _, err := uc.CreateLink(ctx, "user-1", "plan-premium", 199000, "x")
		if !errors.Is(err, domain.ErrDuplicateOrderRef) {
			t.Fatalf("expected ErrDuplicateOrderRef, got %v", err)
		}
	})
}
