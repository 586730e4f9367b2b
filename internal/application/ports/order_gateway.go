package ports

import (
	"context"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

type OrderSubmission struct {
	UserID          string
	Items           []checkout.OrderItem
	ShippingAddress checkout.ShippingAddress
	PaymentMethod   checkout.Method
}

// OrderGateway is the backend order API. SubmitOrder returns the
// persisted order record; transport failures and rejections come back
// as errors carrying the most specific message available.
type OrderGateway interface {
	SubmitOrder(ctx context.Context, submission OrderSubmission) (*checkout.Order, error)
}

// GatewayError carries the detail message extracted from a gateway
// error response so the session can surface it to the user.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}
