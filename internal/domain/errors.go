package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrInvalidSize     = errors.New("invalid print size")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrEmptyOrder      = errors.New("order must contain at least one product")
	ErrCartEmpty       = errors.New("cart is empty")

	// ErrOrderAlreadyFinal marks a verification attempt against an order that
	// has already reached COMPLETE or FAILED. Terminal states are one-way.
	ErrOrderAlreadyFinal = errors.New("order is already in a terminal state")

	// ErrPaymentNotInitiated marks a verification attempt against an order
	// that has no gateway transaction yet.
	ErrPaymentNotInitiated = errors.New("payment has not been initiated for this order")

	// ErrPaymentRefMismatch marks a callback whose gateway order reference
	// does not match the transaction recorded on the order.
	ErrPaymentRefMismatch = errors.New("gateway order reference does not match this order")

	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrGatewayUnavailable  = errors.New("payment gateway is unavailable, please retry")
	ErrOrderNotPlaced      = errors.New("order has not been placed")
	ErrForbidden           = errors.New("you are not allowed to access this resource")
)
