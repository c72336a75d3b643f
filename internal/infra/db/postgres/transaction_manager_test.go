//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
)

func TestTxManager_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	tm := NewTxManager(testPool)
	payments := NewPaymentRepo(testPool)

	t.Run("callback error rolls everything back", func(t *testing.T) {
		cleanup(t)
		seedPlan(t)

		boom := errors.New("boom")
		err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			seedPendingPaymentTx(t, payments, tx, "user-1-ref-1")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected callback error to surface, got %v", err)
		}

		if _, err := payments.FindByOrderRef(ctx, nil, "user-1-ref-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("row must not survive the rollback, got %v", err)
		}
	})

	t.Run("successful callback commits", func(t *testing.T) {
		cleanup(t)
		seedPlan(t)

		err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			seedPendingPaymentTx(t, payments, tx, "user-1-ref-1")
			return nil
		})
		if err != nil {
			t.Fatalf("WithTx failed: %v", err)
		}

		if _, err := payments.FindByOrderRef(ctx, nil, "user-1-ref-1"); err != nil {
			t.Fatalf("committed row not found: %v", err)
		}
	})
}
