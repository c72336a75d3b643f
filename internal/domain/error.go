package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrDuplicateOrderRef  = errors.New("order reference already exists")
	ErrAmountMismatch     = errors.New("amount does not match plan price")
	ErrInvalidSignature   = errors.New("invalid callback signature")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrGatewayDeclined    = errors.New("gateway declined payment request")
)
