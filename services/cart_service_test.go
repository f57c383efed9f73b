package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/models"
	"github.com/ecocycle/backend/services"
)

func newCartFixture() (*services.CartService, *memCartRepo, *stubCatalog) {
	repo := newMemCartRepo()
	catalog := newStubCatalog(
		models.Product{ID: "1", Name: "Product A", Price: 1.00, Stock: 2},
		models.Product{ID: "2", Name: "Product B", Price: 2.00, Stock: 5},
		models.Product{ID: "3", Name: "Product C", Price: 35.00, Stock: 0},
	)
	svc := services.NewCartService(repo, catalog, zap.NewNop())
	return svc, repo, catalog
}

func TestSetItem_Success(t *testing.T) {
	svc, _, _ := newCartFixture()

	cart, err := svc.SetItem(context.Background(), "shopper-1", "1", 2)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "1", cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSetItem_QuantityBelowOne(t *testing.T) {
	svc, repo, _ := newCartFixture()

	_, err := svc.SetItem(context.Background(), "shopper-1", "1", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	_, err = svc.SetItem(context.Background(), "shopper-1", "1", -3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	stored, _ := repo.GetCart(context.Background(), "shopper-1")
	assert.Nil(t, stored, "cart must stay untouched after rejected mutation")
}

func TestSetItem_InsufficientStock(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	// Product 1 has stock 2; the existing line stays at quantity 1.
	_, err := svc.SetItem(ctx, "shopper-1", "1", 1)
	require.NoError(t, err)

	_, err = svc.SetItem(ctx, "shopper-1", "1", 3)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	view, err := svc.GetCart(ctx, "shopper-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.InDelta(t, 1.00, view.Total, 0.001)
}

func TestSetItem_ZeroStockProduct(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.SetItem(context.Background(), "shopper-1", "3", 1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestSetItem_UnknownProduct(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.SetItem(context.Background(), "shopper-1", "nope", 1)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestSetItem_SetsAbsoluteQuantityNotAdditive(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.SetItem(ctx, "shopper-1", "2", 2)
	require.NoError(t, err)

	cart, err := svc.SetItem(ctx, "shopper-1", "2", 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity, "set semantics, not increment")
}

func TestSetItem_PreservesInsertionOrder(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	_, _ = svc.SetItem(ctx, "shopper-1", "2", 1)
	_, _ = svc.SetItem(ctx, "shopper-1", "1", 1)
	cart, err := svc.SetItem(ctx, "shopper-1", "2", 4)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "2", cart.Items[0].ProductID)
	assert.Equal(t, "1", cart.Items[1].ProductID)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	// Removing from a cart that does not exist at all.
	cart, err := svc.RemoveItem(ctx, "shopper-1", "1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.SetItem(ctx, "shopper-1", "1", 1)
	require.NoError(t, err)

	cart, err = svc.RemoveItem(ctx, "shopper-1", "does-not-exist")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "removing a nonexistent line is a no-op")

	cart, err = svc.RemoveItem(ctx, "shopper-1", "1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestComputeTotal(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	total, err := svc.ComputeTotal(ctx, "shopper-1")
	require.NoError(t, err)
	assert.Zero(t, total)

	// A(qty 1, price 1.00) + B(qty 2, price 2.00) = 5.00
	_, _ = svc.SetItem(ctx, "shopper-1", "1", 1)
	_, _ = svc.SetItem(ctx, "shopper-1", "2", 2)

	total, err = svc.ComputeTotal(ctx, "shopper-1")
	require.NoError(t, err)
	assert.InDelta(t, 5.00, total, 0.001)

	// Recomputed after every mutation, not cached.
	_, _ = svc.RemoveItem(ctx, "shopper-1", "2")
	total, err = svc.ComputeTotal(ctx, "shopper-1")
	require.NoError(t, err)
	assert.InDelta(t, 1.00, total, 0.001)
}

func TestGetCart_SkipsVanishedProducts(t *testing.T) {
	svc, _, catalog := newCartFixture()
	ctx := context.Background()

	_, _ = svc.SetItem(ctx, "shopper-1", "1", 1)
	_, _ = svc.SetItem(ctx, "shopper-1", "2", 1)
	delete(catalog.products, "2")

	view, err := svc.GetCart(ctx, "shopper-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "1", view.Items[0].Product.ID)
	assert.InDelta(t, 1.00, view.Total, 0.001)
}

func TestClearCart(t *testing.T) {
	svc, repo, _ := newCartFixture()
	ctx := context.Background()

	_, _ = svc.SetItem(ctx, "shopper-1", "1", 1)
	require.NoError(t, svc.ClearCart(ctx, "shopper-1"))

	stored, _ := repo.GetCart(ctx, "shopper-1")
	assert.Nil(t, stored)
}
