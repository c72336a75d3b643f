// File: internal/usecase/settlement_uc.go
package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/logging"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/metrics"
)

// SettlementOutcome classifies how an IPN callback was handled. The HTTP
// layer maps outcomes to status codes; only Completed and the two
// acknowledgment outcomes answer 2xx, because the gateway retries on
// anything else.
type SettlementOutcome string

const (
	OutcomeCompleted      SettlementOutcome = "completed"       // payment settled, subscription extended
	OutcomeAlreadySettled SettlementOutcome = "already_settled" // idempotent replay, no-op
	OutcomeFailedRecorded SettlementOutcome = "failed_recorded" // gateway reported failure, receipt acknowledged
	OutcomeBadSignature   SettlementOutcome = "bad_signature"
	OutcomeUnknownOrder   SettlementOutcome = "unknown_order"
	OutcomeAmountMismatch SettlementOutcome = "amount_mismatch"
)

type SettlementResult struct {
	Outcome      SettlementOutcome
	Payment      *model.Payment
	Subscription *model.Subscription
}

// Compile-time check
var _ SettlementUseCase = (*settlementUC)(nil)

type SettlementUseCase interface {
	// HandleIPN authenticates and applies one gateway callback. Protocol
	// outcomes (bad signature, unknown order, replay) are results, not
	// errors; the error return is reserved for infrastructure failure.
	HandleIPN(ctx context.Context, cb adapter.IPNCallback) (*SettlementResult, error)
}

type settlementUC struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
	plans    repository.PlanRepository
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewSettlementUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	plans repository.PlanRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *settlementUC {
	return &settlementUC{payments: payments, subs: subs, plans: plans, gateway: gateway, tm: tm, log: logger}
}

// HandleIPN drives the payment state machine: pending -> completed|failed,
// both terminal. The signature check runs before any ledger access so an
// unauthenticated caller learns nothing about which orders exist. The
// conditional status update and the subscription extension share one
// transaction; partial application is impossible by construction.
func (u *settlementUC) HandleIPN(ctx context.Context, cb adapter.IPNCallback) (*SettlementResult, error) {
	defer logging.TraceDuration(u.log, "SettlementUC.HandleIPN")()

	if !u.gateway.VerifyIPN(cb) {
		metrics.IncSettlementCallback(string(OutcomeBadSignature))
		u.log.Warn().Str("order_ref", cb.OrderID).Msg("ipn rejected: signature mismatch")
		return &SettlementResult{Outcome: OutcomeBadSignature}, nil
	}

	res := &SettlementResult{}
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByOrderRef(ctx, tx, cb.OrderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				res.Outcome = OutcomeUnknownOrder
				return nil
			}
			return err
		}

		// A well-signed callback whose amount disagrees with the stored row
		// is a replay across orders or a gateway fault; touch nothing.
		if cb.Amount != p.Amount {
			res.Outcome = OutcomeAmountMismatch
			res.Payment = p
			return nil
		}

		if !cb.Succeeded() {
			applied, p, err := u.payments.MarkFailed(ctx, tx, cb.OrderID, cb.Message)
			if err != nil {
				return err
			}
			res.Payment = p
			if applied {
				res.Outcome = OutcomeFailedRecorded
			} else {
				res.Outcome = OutcomeAlreadySettled
			}
			return nil
		}

		transID := strconv.FormatInt(cb.TransID, 10)
		applied, p, err := u.payments.TryComplete(ctx, tx, cb.OrderID, transID, model.MethodFromPayType(cb.PayType))
		if err != nil {
			return err
		}
		res.Payment = p
		if !applied {
			// Already terminal: acknowledge without extending. Gateways
			// retry on any non-2xx, so a replay is success, not an error.
			res.Outcome = OutcomeAlreadySettled
			return nil
		}

		plan, err := u.plans.FindByID(ctx, tx, p.PlanID)
		if err != nil {
			return err
		}
		sub, err := u.subs.Extend(ctx, tx, p.UserID, plan.Name, plan.DurationDays)
		if err != nil {
			return err
		}
		res.Outcome = OutcomeCompleted
		res.Subscription = sub
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Str("order_ref", cb.OrderID).Msg("ipn settlement failed")
		return nil, err
	}

	metrics.IncSettlementCallback(string(res.Outcome))
	switch res.Outcome {
	case OutcomeCompleted:
		metrics.IncPayment(string(model.PaymentStatusCompleted))
		metrics.AddPaymentRevenue("vnd", res.Payment.Amount)
		metrics.IncSubscriptionExtension(res.Subscription.PlanType)
		u.log.Info().Str("order_ref", cb.OrderID).Str("user_id", res.Payment.UserID).
			Int64("amount", res.Payment.Amount).Time("end_time", res.Subscription.EndTime).
			Msg("payment settled, subscription extended")
	case OutcomeFailedRecorded:
		metrics.IncPayment(string(model.PaymentStatusFailed))
		u.log.Info().Str("order_ref", cb.OrderID).Int("result_code", cb.ResultCode).
			Str("message", cb.Message).Msg("payment marked failed")
	case OutcomeAlreadySettled:
		u.log.Debug().Str("order_ref", cb.OrderID).Msg("ipn replay acknowledged")
	case OutcomeUnknownOrder:
		u.log.Warn().Str("order_ref", cb.OrderID).Msg("ipn for unknown order rejected")
	case OutcomeAmountMismatch:
		u.log.Warn().Str("order_ref", cb.OrderID).Int64("ipn_amount", cb.Amount).
			Int64("stored_amount", res.Payment.Amount).Msg("ipn amount mismatch rejected")
	}
	return res, nil
}
