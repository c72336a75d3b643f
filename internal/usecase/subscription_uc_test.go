//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/usecase"
)

func TestSubscriptionUC_GetByUser(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("active subscription reads active", func(t *testing.T) {
		subs := NewMemSubscriptionRepo()
		subs.Seed(&model.Subscription{
			UserID:   "user-1",
			PlanType: "Premium",
			EndTime:  time.Now().Add(24 * time.Hour),
			Status:   model.SubscriptionStatusActive,
		})
		uc := usecase.NewSubscriptionUseCase(subs, logger)

		s, err := uc.GetByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Status != model.SubscriptionStatusActive {
			t.Errorf("status %s, want active", s.Status)
		}
	})

	t.Run("past end time reads expired without a write", func(t *testing.T) {
		subs := NewMemSubscriptionRepo()
		subs.Seed(&model.Subscription{
			UserID:   "user-1",
			PlanType: "Premium",
			EndTime:  time.Now().Add(-time.Hour),
			Status:   model.SubscriptionStatusActive,
		})
		uc := usecase.NewSubscriptionUseCase(subs, logger)

		s, err := uc.GetByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Status != model.SubscriptionStatusExpired {
			t.Errorf("status %s, want expired", s.Status)
		}
		stored, _ := subs.FindByUser(ctx, nil, "user-1")
		if stored.Status != model.SubscriptionStatusActive {
			t.Error("reader must not rewrite the stored status")
		}
	})

	t.Run("cancelled stays cancelled", func(t *testing.T) {
		subs := NewMemSubscriptionRepo()
		subs.Seed(&model.Subscription{
			UserID:   "user-1",
			PlanType: "Premium",
			EndTime:  time.Now().Add(24 * time.Hour),
			Status:   model.SubscriptionStatusCancelled,
		})
		uc := usecase.NewSubscriptionUseCase(subs, logger)

		s, err := uc.GetByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Status != model.SubscriptionStatusCancelled {
			t.Errorf("status %s, want cancelled", s.Status)
		}
	})

	t.Run("missing row returns not found", func(t *testing.T) {
		uc := usecase.NewSubscriptionUseCase(NewMemSubscriptionRepo(), logger)
		_, err := uc.GetByUser(ctx, "nobody")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
