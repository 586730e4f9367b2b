package ports

import (
	"context"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

// MarkerStore persists pending-payment markers across the redirect
// gap. Markers are keyed per session; Get and Consume return
// (nil, nil) when no marker exists.
type MarkerStore interface {
	Put(ctx context.Context, marker *checkout.PendingPayment) error
	Get(ctx context.Context, sessionID string) (*checkout.PendingPayment, error)

	// Consume atomically removes the marker and returns it, so only
	// one caller can ever claim a given marker.
	Consume(ctx context.Context, sessionID string) (*checkout.PendingPayment, error)
	Delete(ctx context.Context, sessionID string) error
}
