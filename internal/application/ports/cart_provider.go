package ports

import (
	"context"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

// CartProvider exposes the user's current cart snapshot. The
// orchestrator only reads it; emptiness forces the session back to the
// review step.
type CartProvider interface {
	GetCart(ctx context.Context, userID string) (*checkout.Cart, error)
}
