package ports

import (
	"context"
	"time"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*checkout.Session, error)
	GetByUser(ctx context.Context, userID string) (*checkout.Session, error)
	Save(ctx context.Context, session *checkout.Session) error
	Delete(ctx context.Context, id string) error

	// DeleteIdle removes sessions not touched within maxIdle and
	// returns how many were removed.
	DeleteIdle(ctx context.Context, maxIdle time.Duration) (int, error)
}
