package payments

import "errors"

// Service errors.
var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentNotOwned   = errors.New("payment belongs to another user")
	ErrRoomNotFound      = errors.New("room not found")
	ErrPayerNotFound     = errors.New("payer not found")
	ErrInvalidTransition = errors.New("only pending payments can change status")
	ErrInvalidStatus     = errors.New("invalid payment status")
)
