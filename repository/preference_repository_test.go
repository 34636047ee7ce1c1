package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordrz-storefront/models"
)

func newPrefs() (*PreferenceRepository, *KVMemoryRepository) {
	kv := NewKVMemoryRepository()
	return NewPreferenceRepository(kv, "sess-1", "18", zap.NewNop()), kv
}

func TestPreference_OrderContext(t *testing.T) {
	ctx := context.Background()
	prefs, _ := newPrefs()

	oc, err := prefs.GetOrderContext(ctx)
	require.NoError(t, err)
	assert.False(t, oc.Complete())
	assert.Equal(t, "18", oc.BusinessID)

	require.NoError(t, prefs.SaveOrderContext(ctx, models.OrderContext{
		BranchID:   "22",
		OrderType:  models.OrderTypeDelivery,
		BusinessID: "40",
		BranchName: "DHA Phase 6",
	}))

	oc, err = prefs.GetOrderContext(ctx)
	require.NoError(t, err)
	assert.True(t, oc.Complete())
	assert.Equal(t, "22", oc.BranchID)
	assert.Equal(t, "delivery", oc.OrderType)
	assert.Equal(t, "40", oc.BusinessID)
	assert.Equal(t, "DHA Phase 6", oc.BranchName)
}

func TestPreference_OrderID(t *testing.T) {
	ctx := context.Background()

	t.Run("ensure_creates_once", func(t *testing.T) {
		prefs, _ := newPrefs()

		id, err := prefs.GetOrderID(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)

		first, err := prefs.EnsureOrderID(ctx)
		require.NoError(t, err)
		assert.Len(t, first, 32)
		assert.NotContains(t, first, "-")

		second, err := prefs.EnsureOrderID(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("temp_id_is_fallback", func(t *testing.T) {
		prefs, _ := newPrefs()
		require.NoError(t, prefs.SaveTempOrderID(ctx, "T-991"))

		id, err := prefs.GetOrderID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "T-991", id)

		require.NoError(t, prefs.ClearOrderIDs(ctx))
		id, err = prefs.GetOrderID(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestPreference_SavedCart(t *testing.T) {
	ctx := context.Background()
	prefs, kv := newPrefs()

	items := []models.CartLineItem{{ID: "101", Name: "Zinger", Price: "650.00", Quantity: 2, UniqueID: "101"}}
	require.NoError(t, prefs.SaveCart(ctx, items))

	saved, err := prefs.GetSavedCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, saved)

	require.NoError(t, kv.Set(ctx, "sess-1", KeyCart, "{not json"))
	saved, err = prefs.GetSavedCart(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestPreference_UserLocation(t *testing.T) {
	ctx := context.Background()
	prefs, _ := newPrefs()

	loc, err := prefs.GetUserLocation(ctx)
	require.NoError(t, err)
	assert.Nil(t, loc)

	require.NoError(t, prefs.SaveUserLocation(ctx, models.UserLocation{Lat: "31.5204", Lng: "74.3587"}))
	loc, err = prefs.GetUserLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "31.5204", loc.Lat)
	assert.Equal(t, "74.3587", loc.Lng)
}
