package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/dbtest"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
)

func newCart(t *testing.T) (*cart.Service, *catalog.MenuService) {
	t.Helper()
	db := dbtest.New(t)
	menu := catalog.NewMenuService(db)
	return cart.NewService(db, menu), menu
}

func TestAddToCartAccumulates(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	entry, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
	assert.True(t, entry.TotalPrice.Equal(decimal.NewFromInt(240)))

	entry, err = carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity, "adding the same item increments the existing entry")
	assert.True(t, entry.TotalPrice.Equal(decimal.NewFromInt(600)))

	items, err := carts.Items(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddToCartRepricesAtCurrentPrice(t *testing.T) {
	ctx := context.Background()
	carts, menu := newCart(t)

	_, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 1})
	require.NoError(t, err)

	price := decimal.NewFromInt(150)
	_, err = menu.UpdateItem(ctx, 1, &catalog.MenuItemUpdateRequest{Price: &price})
	require.NoError(t, err)

	entry, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, entry.TotalPrice.Equal(decimal.NewFromInt(300)), "got %s", entry.TotalPrice)
}

func TestAddToCartRejects(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	_, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 404, Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 6, Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrValidation, "croissant is seeded as unavailable")

	_, err = carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 0})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	_, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 1, Quantity: 1})
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, 2, &cart.AddToCartRequest{MenuItemID: 2, Quantity: 4})
	require.NoError(t, err)

	first, err := carts.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, uint(1), first.Items[0].MenuItemID)

	require.NoError(t, carts.ClearCart(ctx, 1))

	second, err := carts.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, second.Totals.TotalQuantity)
}

func TestGetCartTotals(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	_, err := carts.AddToCart(ctx, 9, &cart.AddToCartRequest{MenuItemID: 2, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, 9, &cart.AddToCartRequest{MenuItemID: 5, Quantity: 1})
	require.NoError(t, err)

	resp, err := carts.GetCart(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.UserID)
	assert.Equal(t, 2, resp.Totals.ItemCount)
	assert.Equal(t, 3, resp.Totals.TotalQuantity)
	assert.True(t, resp.Totals.TotalPrice.Equal(decimal.NewFromInt(640)), "got %s", resp.Totals.TotalPrice)

	// Entries come back in insertion order with the menu item attached
	require.Len(t, resp.Items, 2)
	assert.Equal(t, uint(2), resp.Items[0].MenuItemID)
	require.NotNil(t, resp.Items[0].MenuItem)
	assert.Equal(t, "Cappuccino", resp.Items[0].MenuItem.Name)
}

func TestEmptyCart(t *testing.T) {
	carts, _ := newCart(t)

	resp, err := carts.GetCart(context.Background(), 77)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Totals.TotalPrice.IsZero())

	assert.NoError(t, carts.ClearCart(context.Background(), 77), "clearing an empty cart succeeds")
}

func TestUpdateCartItem(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	_, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 4, Quantity: 1})
	require.NoError(t, err)

	entry, err := carts.UpdateCartItem(ctx, 1, 4, &cart.UpdateCartItemRequest{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Quantity)
	assert.True(t, entry.TotalPrice.Equal(decimal.NewFromInt(450)))

	entry, err = carts.UpdateCartItem(ctx, 1, 4, &cart.UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Nil(t, entry, "quantity zero removes the entry")

	_, err = carts.UpdateCartItem(ctx, 1, 4, &cart.UpdateCartItemRequest{Quantity: 2})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	carts, _ := newCart(t)

	_, err := carts.AddToCart(ctx, 1, &cart.AddToCartRequest{MenuItemID: 3, Quantity: 1})
	require.NoError(t, err)

	removed, err := carts.RemoveFromCart(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = carts.RemoveFromCart(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, removed)
}
