package model

import (
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // row created, user redirected to gateway
	PaymentStatusCompleted PaymentStatus = "completed" // verified IPN with success result code
	PaymentStatusFailed    PaymentStatus = "failed"    // verified IPN with failure result code
	PaymentStatusRefunded  PaymentStatus = "refunded"  // set by an administrative action, never by this core
)

// IsTerminal reports whether no further status transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

type PaymentMethod string

const (
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodATMCard    PaymentMethod = "atm_card"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodQR         PaymentMethod = "qr"
)

// MethodFromPayType maps the gateway payType field to our method enum.
// Unknown values fall back to wallet, which is the gateway's default channel.
func MethodFromPayType(payType string) PaymentMethod {
	switch payType {
	case "qr":
		return PaymentMethodQR
	case "atm", "napas":
		return PaymentMethodATMCard
	case "credit", "international":
		return PaymentMethodCreditCard
	default:
		return PaymentMethodWallet
	}
}

// Payment records one attempted transaction with the external gateway.
// Rows are never deleted; completed/failed/refunded are terminal states.
type Payment struct {
	ID             string // UUID
	UserID         string
	PlanID         string
	OrderReference string // unique, generated before the gateway call; the idempotency key
	Amount         int64  // VND, integer minor units; must equal plan price at creation
	Method         PaymentMethod
	Status         PaymentStatus
	GatewayTransID *string // provider transaction id, set only on completed
	FailReason     *string // provider message, set only on failed
	CreatedAt      time.Time
	SettledAt      *time.Time
}

// NewPayment validates and constructs a pending payment.
func NewPayment(id, userID, planID, orderReference string, amount int64) (*Payment, error) {
	if id == "" || userID == "" || planID == "" || orderReference == "" || amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Payment{
		ID:             id,
		UserID:         userID,
		PlanID:         planID,
		OrderReference: orderReference,
		Amount:         amount,
		Method:         PaymentMethodWallet,
		Status:         PaymentStatusPending,
		CreatedAt:      time.Now(),
	}, nil
}
