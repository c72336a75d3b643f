package repository

import (
	"context"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
)

// PaymentRepository is the payment ledger. OrderReference is the unique
// idempotency key; a row transitions pending -> completed|failed exactly
// once and is never deleted.
type PaymentRepository interface {
	// CreatePending inserts a new pending payment. Returns
	// domain.ErrDuplicateOrderRef when the reference already exists.
	CreatePending(ctx context.Context, tx Tx, p *model.Payment) error

	// FindByOrderRef returns the payment for the given order reference, or
	// domain.ErrNotFound. Inside a transaction the row is locked FOR UPDATE.
	FindByOrderRef(ctx context.Context, tx Tx, orderRef string) (*model.Payment, error)

	// TryComplete atomically sets status to completed and stores the gateway
	// transaction id, only if the current status is pending. Returns
	// applied=false (not an error) with the existing row when the payment is
	// already terminal, and domain.ErrNotFound when no row matches.
	TryComplete(ctx context.Context, tx Tx, orderRef, gatewayTransID string, method model.PaymentMethod) (applied bool, p *model.Payment, err error)

	// MarkFailed mirrors TryComplete for the failure branch, recording the
	// provider's message.
	MarkFailed(ctx context.Context, tx Tx, orderRef, reason string) (applied bool, p *model.Payment, err error)
}
