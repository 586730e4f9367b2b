package errors

import (
	"errors"
)

var (
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrSessionCompleted = errors.New("checkout session already completed")
	ErrSessionExpired   = errors.New("checkout session expired")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStep        = errors.New("invalid checkout step")
	ErrStepNotAdvanceable = errors.New("step preconditions not met")

	ErrShippingIncomplete   = errors.New("shipping information is incomplete")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrOrderMissingID       = errors.New("gateway returned an order without an id")
	ErrOrderAlreadyPlaced   = errors.New("order already placed for this session")

	ErrPaymentSessionFailed = errors.New("payment session could not be created")
	ErrNoPendingPayment     = errors.New("no pending payment for this session")

	ErrGatewayUnavailable = errors.New("order gateway unavailable")
)
