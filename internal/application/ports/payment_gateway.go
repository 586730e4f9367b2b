package ports

import (
	"context"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

type PaymentSessionRequest struct {
	UserID string
	Items  []checkout.OrderItem
	Amount int64
}

// PaymentGateway initiates a payment session for redirect-based
// methods and returns the external payment page URL.
type PaymentGateway interface {
	CreatePaymentSession(ctx context.Context, req PaymentSessionRequest) (string, error)
}
