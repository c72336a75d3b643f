package adapter

import "context"

// CreateLinkRequest carries everything the gateway needs to open a payment
// session for one order.
type CreateLinkRequest struct {
	OrderReference string
	Amount         int64 // VND
	OrderInfo      string
	ExtraData      string
}

// CreateLinkResult is the gateway's answer to a successful create call.
type CreateLinkResult struct {
	PayURL    string
	RequestID string
}

// IPNCallback is the gateway's asynchronous settlement notification, exactly
// as received on the wire (signature included). Field order on the wire is
// irrelevant; the canonical string is rebuilt from these values.
type IPNCallback struct {
	OrderID      string
	RequestID    string
	Amount       int64
	OrderInfo    string
	OrderType    string
	TransID      int64
	ResultCode   int
	Message      string
	PayType      string
	ResponseTime int64
	ExtraData    string
	Signature    string
}

// Succeeded reports whether the gateway settled the transaction.
func (cb IPNCallback) Succeeded() bool { return cb.ResultCode == 0 }

// PaymentGateway is the outbound boundary to the external payment provider
// plus the signature authority for its inbound callbacks.
type PaymentGateway interface {
	Name() string

	// NewOrderReference generates a fresh globally-unique order reference for
	// the user. Callers retry generation when the ledger reports a conflict.
	NewOrderReference(userID string) string

	// CreateLink opens a payment session. Network errors are retryable by the
	// caller; a non-zero provider result code wraps domain.ErrGatewayDeclined.
	CreateLink(ctx context.Context, req CreateLinkRequest) (*CreateLinkResult, error)

	// VerifyIPN recomputes the callback's canonical string and checks its
	// HMAC signature in constant time.
	VerifyIPN(cb IPNCallback) bool
}
