package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/domain/payment"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAndLoadCatalog(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	items := []catalog.Item{
		{
			ID: "dosa", Name: "Masala Dosa", Price: decimal.RequireFromString("85.50"),
			ImageURI: "/images/dosa.jpg", Description: "Crisp rice crepe",
			Category: "breakfast", Brand: "Annapurna Kitchen", Stock: 35,
			Available: true, Featured: true, Diet: catalog.DietVeg,
		},
		{
			ID: "biryani", Name: "Chicken Biryani", Price: decimal.RequireFromString("220"),
			Category: "meal", Stock: 20, Available: true, Diet: catalog.DietNonVeg,
		},
	}
	require.NoError(t, store.UpsertItems(ctx, items))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Insertion order preserved.
	assert.Equal(t, "dosa", loaded[0].ID)
	assert.Equal(t, "biryani", loaded[1].ID)

	// Prices round-trip exactly through the TEXT column.
	assert.True(t, items[0].Price.Equal(loaded[0].Price))
	assert.Equal(t, "Annapurna Kitchen", loaded[0].Brand)
	assert.True(t, loaded[0].Featured)
	assert.Equal(t, catalog.DietNonVeg, loaded[1].Diet)
}

func TestUpsertItems_ReplacesByID(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	item := catalog.Item{ID: "dosa", Name: "Masala Dosa", Price: decimal.RequireFromString("85.50")}
	require.NoError(t, store.UpsertItems(ctx, []catalog.Item{item}))

	item.Price = decimal.RequireFromString("90.00")
	require.NoError(t, store.UpsertItems(ctx, []catalog.Item{item}))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "90", loaded[0].Price.String())
}

func TestSeedMarker(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	seeded, err := store.Seeded(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, store.MarkSeeded(ctx, time.Now()))

	seeded, err = store.Seeded(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestSeedPayments(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedPayments(ctx, payment.Methods()))
	// Reseeding is idempotent.
	require.NoError(t, store.SeedPayments(ctx, payment.Methods()))
}

func TestSessionDefaults(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	v, err := store.Default(ctx, "currency")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.SetDefault(ctx, "currency", "₹"))

	v, err = store.Default(ctx, "currency")
	require.NoError(t, err)
	assert.Equal(t, "₹", v)
}
