package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laptora/checkout-service/internal/domain/checkout"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

// MarkerStore persists pending-payment markers in Redis so they
// survive the gap while the user is away on the external payment
// page. Keys are namespaced per session; the TTL caps how long an
// orphaned marker can linger.
type MarkerStore struct {
	client *redis.Client
	logger *logger.Logger
	ttl    time.Duration
}

func NewMarkerStore(conn *Connection, log *logger.Logger, ttl time.Duration) *MarkerStore {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &MarkerStore{
		client: client,
		logger: log,
		ttl:    ttl,
	}
}

func markerKey(sessionID string) string {
	return fmt.Sprintf("checkout:pending:%s", sessionID)
}

func (s *MarkerStore) Put(ctx context.Context, marker *checkout.PendingPayment) error {
	data, err := json.Marshal(marker)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, markerKey(marker.SessionID), data, s.ttl).Err()
}

// Get returns (nil, nil) when no marker exists for the session.
func (s *MarkerStore) Get(ctx context.Context, sessionID string) (*checkout.PendingPayment, error) {
	data, err := s.client.Get(ctx, markerKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var marker checkout.PendingPayment
	if err := json.Unmarshal(data, &marker); err != nil {
		// A corrupt marker must not wedge the resume flow; drop it.
		s.logger.Warn("Dropping unreadable pending payment marker",
			"session_id", sessionID,
			"error", err.Error(),
		)
		_ = s.client.Del(ctx, markerKey(sessionID)).Err()
		return nil, nil
	}
	return &marker, nil
}

// Consume removes and returns the marker in one GETDEL, so two
// concurrent resume calls cannot both claim it.
func (s *MarkerStore) Consume(ctx context.Context, sessionID string) (*checkout.PendingPayment, error) {
	data, err := s.client.GetDel(ctx, markerKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var marker checkout.PendingPayment
	if err := json.Unmarshal(data, &marker); err != nil {
		s.logger.Warn("Dropped unreadable pending payment marker",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return nil, nil
	}
	return &marker, nil
}

func (s *MarkerStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, markerKey(sessionID)).Err()
}
