// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/metrics"
)

// maxOrderRefAttempts bounds regeneration when the ledger reports a
// duplicate order reference.
const maxOrderRefAttempts = 3

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CreateLink opens a payment session with the gateway and persists the
	// pending ledger row. The returned URL redirects the user to the gateway.
	CreateLink(ctx context.Context, userID, planID string, amount int64, orderInfo string) (*model.Payment, string, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	gateway  adapter.PaymentGateway
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, plans repository.PlanRepository, gateway adapter.PaymentGateway, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{payments: payments, plans: plans, gateway: gateway, log: logger}
}

// CreateLink validates the plan and amount before contacting the gateway,
// and only persists the pending row after the gateway has answered with a
// redirect URL. The row must exist before the URL reaches the user, so a
// callback can never race ahead of the record it needs to find.
func (u *paymentUC) CreateLink(ctx context.Context, userID, planID string, amount int64, orderInfo string) (*model.Payment, string, error) {
	if userID == "" || planID == "" {
		return nil, "", domain.ErrInvalidArgument
	}

	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return nil, "", err
	}
	if amount != plan.Price {
		u.log.Warn().Str("user_id", userID).Str("plan_id", planID).
			Int64("amount", amount).Int64("price", plan.Price).
			Msg("create link rejected: amount does not match plan price")
		return nil, "", domain.ErrAmountMismatch
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderRefAttempts; attempt++ {
		orderRef := u.gateway.NewOrderReference(userID)

		res, err := u.gateway.CreateLink(ctx, adapter.CreateLinkRequest{
			OrderReference: orderRef,
			Amount:         amount,
			OrderInfo:      orderInfo,
		})
		if err != nil {
			// Gateway failures leave no row behind; network errors are
			// retryable by the caller, declines are not.
			return nil, "", err
		}

		p, err := model.NewPayment(uuid.NewString(), userID, planID, orderRef, amount)
		if err != nil {
			return nil, "", err
		}
		if err := u.payments.CreatePending(ctx, nil, p); err != nil {
			if errors.Is(err, domain.ErrDuplicateOrderRef) {
				u.log.Warn().Str("order_ref", orderRef).Msg("order reference collision, regenerating")
				lastErr = err
				continue
			}
			return nil, "", err
		}

		metrics.IncPayment(string(model.PaymentStatusPending))
		u.log.Info().Str("order_ref", orderRef).Str("user_id", userID).
			Str("plan_id", planID).Int64("amount", amount).Msg("payment link created")
		return p, res.PayURL, nil
	}
	return nil, "", lastErr
}
