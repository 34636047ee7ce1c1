package cart

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordrz-storefront/metrics"
	"ordrz-storefront/models"
	"ordrz-storefront/repository"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewKVMemoryRepository()

	var fetches int32
	remote := &fakeRemote{
		FetchFn: func(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error) {
			atomic.AddInt32(&fetches, 1)
			return &models.CartAPIResponse{Status: 200, Result: &models.CartAPIResult{}}, nil
		},
	}

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	registry := NewRegistry(remote, kv, "18", zap.NewNop(), StoreOptions{Now: func() time.Time { return now }})

	prefs := registry.Preferences("sess-a")
	require.NoError(t, prefs.SaveTempOrderID(ctx, "order-a"))

	first := registry.Store(ctx, "sess-a")
	second := registry.Store(ctx, "sess-a")
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "a store is hydrated once")

	other := registry.Store(ctx, "sess-b")
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, registry.Len())

	now = now.Add(time.Hour)
	registry.Store(ctx, "sess-b")
	assert.Equal(t, 1, registry.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, registry.Len())

	revived := registry.Store(ctx, "sess-a")
	assert.NotSame(t, first, revived)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestRegistry_LiveStoresGauge(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	registry := NewRegistry(&fakeRemote{}, repository.NewKVMemoryRepository(), "18", zap.NewNop(),
		StoreOptions{Metrics: m, Now: func() time.Time { return now }})

	registry.Store(ctx, "sess-a")
	registry.Store(ctx, "sess-b")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveStores))

	now = now.Add(time.Hour)
	registry.EvictIdle(30 * time.Minute)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LiveStores))
}
