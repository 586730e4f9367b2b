package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/clock"
)

func TestSessionStore_SaveAndLookup(t *testing.T) {
	store := NewSessionStore(clock.NewRealClock())
	ctx := context.Background()

	session, err := checkout.NewSession("sess-1", "user-1")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, session))

	byID, err := store.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, byID.ID)
	assert.NotSame(t, session, byID)

	byUser, err := store.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, byUser.ID)
	assert.NotSame(t, session, byUser)

	_, err = store.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domainErrors.ErrSessionNotFound)
}

func TestSessionStore_LookupReturnsIndependentCopy(t *testing.T) {
	store := NewSessionStore(clock.NewRealClock())
	ctx := context.Background()

	session, _ := checkout.NewSession("sess-1", "user-1")
	require.NoError(t, store.Save(ctx, session))

	first, err := store.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, first.MergeShipping(checkout.ShippingInfo{FullName: "Linh Tran"}))

	// The mutation is invisible until the copy is saved back.
	second, err := store.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, second.Shipping.FullName)

	require.NoError(t, store.Save(ctx, first))
	third, err := store.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Linh Tran", third.Shipping.FullName)
}

func TestSessionStore_ConcurrentLookupAndMutation(t *testing.T) {
	store := NewSessionStore(clock.NewRealClock())
	ctx := context.Background()

	session, _ := checkout.NewSession("sess-1", "user-1")
	require.NoError(t, store.Save(ctx, session))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetByID(ctx, "sess-1")
			require.NoError(t, err)
			require.NoError(t, got.MergeShipping(checkout.ShippingInfo{FullName: "Linh Tran"}))
			require.NoError(t, store.Save(ctx, got))
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Linh Tran", got.Shipping.FullName)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(clock.NewRealClock())
	ctx := context.Background()

	session, _ := checkout.NewSession("sess-1", "user-1")
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.GetByID(ctx, "sess-1")
	require.ErrorIs(t, err, domainErrors.ErrSessionNotFound)
	_, err = store.GetByUser(ctx, "user-1")
	require.ErrorIs(t, err, domainErrors.ErrSessionNotFound)

	// Deleting a missing session is a no-op.
	require.NoError(t, store.Delete(ctx, "sess-1"))
}

func TestSessionStore_DeleteIdle(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := NewSessionStore(clk)
	ctx := context.Background()

	stale, _ := checkout.NewSession("sess-stale", "user-1")
	stale.UpdatedAt = now.Add(-2 * time.Hour)
	fresh, _ := checkout.NewSession("sess-fresh", "user-2")
	fresh.UpdatedAt = now.Add(-5 * time.Minute)

	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, fresh))

	removed, err := store.DeleteIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	_, err = store.GetByID(ctx, "sess-stale")
	require.ErrorIs(t, err, domainErrors.ErrSessionNotFound)
	_, err = store.GetByID(ctx, "sess-fresh")
	require.NoError(t, err)
}
