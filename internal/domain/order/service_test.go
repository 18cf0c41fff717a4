package order_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/dbtest"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	menu   *catalog.MenuService
	carts  *cart.Service
	orders *order.Service
	a, b   *catalog.MenuItem
}

// newFixture seeds two extra items: A costs 100 and B costs 50
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	cfg := &config.Config{Database: config.DatabaseConfig{TxRetries: 2}}
	menu := catalog.NewMenuService(db)
	carts := cart.NewService(db, menu)

	a, err := menu.CreateItem(ctx, &catalog.MenuItemCreateRequest{Name: "Item A", CategoryID: 1, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	b, err := menu.CreateItem(ctx, &catalog.MenuItemCreateRequest{Name: "Item B", CategoryID: 1, Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	return &fixture{
		db:     db,
		menu:   menu,
		carts:  carts,
		orders: order.NewService(db, cfg, menu, carts),
		a:      a,
		b:      b,
	}
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&order.Order{}).Count(&n).Error)
	return n
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snap, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: 1,
		StatusID:         1,
		Items: []order.LineItemRequest{
			{MenuItemID: f.a.ID, Quantity: 2},
			{MenuItemID: f.b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, snap.TotalPrice.Equal(decimal.NewFromInt(250)), "got %s", snap.TotalPrice)
	assert.Equal(t, "PICKUP", snap.DeliveryMethodName)
	assert.Equal(t, "PENDING", snap.StatusName)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Item A", snap.Items[0].Name)
	assert.True(t, snap.Items[0].LineTotal.Equal(decimal.NewFromInt(200)))

	price := decimal.NewFromInt(120)
	name := "Item A Large"
	_, err = f.menu.UpdateItem(ctx, f.a.ID, &catalog.MenuItemUpdateRequest{Price: &price, Name: &name})
	require.NoError(t, err)

	again, err := f.orders.GetOrder(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, again.TotalPrice.Equal(decimal.NewFromInt(250)), "total is fixed at creation")
	assert.True(t, again.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)), "line price is fixed at creation")
	assert.Equal(t, "Item A", again.Items[0].Name, "line name is fixed at creation")
}

func TestCreateOrderMissingItemWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: 1,
		Items: []order.LineItemRequest{
			{MenuItemID: f.a.ID, Quantity: 1},
			{MenuItemID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, catalog.EntityMenuItem, apperror.EntityOf(err))

	assert.Zero(t, f.countOrders(t))
	var lines int64
	require.NoError(t, f.db.Model(&order.OrderLineItem{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestCreateOrderRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		req    order.CreateOrderRequest
		kind   error
		entity string
	}{
		{
			name: "no items",
			req:  order.CreateOrderRequest{UserID: 1, DeliveryMethodID: 1},
			kind: apperror.ErrValidation,
		},
		{
			name: "zero quantity",
			req:  order.CreateOrderRequest{UserID: 1, DeliveryMethodID: 1, Items: []order.LineItemRequest{{MenuItemID: 1, Quantity: 0}}},
			kind: apperror.ErrValidation,
		},
		{
			name:   "unknown delivery method",
			req:    order.CreateOrderRequest{UserID: 1, DeliveryMethodID: 42, Items: []order.LineItemRequest{{MenuItemID: 1, Quantity: 1}}},
			kind:   apperror.ErrNotFound,
			entity: order.EntityDeliveryMethod,
		},
		{
			name:   "unknown status",
			req:    order.CreateOrderRequest{UserID: 1, DeliveryMethodID: 1, StatusID: 42, Items: []order.LineItemRequest{{MenuItemID: 1, Quantity: 1}}},
			kind:   apperror.ErrNotFound,
			entity: order.EntityStatus,
		},
		{
			name: "unavailable item",
			req:  order.CreateOrderRequest{UserID: 1, DeliveryMethodID: 1, Items: []order.LineItemRequest{{MenuItemID: 6, Quantity: 1}}},
			kind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.orders.CreateOrder(ctx, &req)
			require.ErrorIs(t, err, tt.kind)
			if tt.entity != "" {
				assert.Equal(t, tt.entity, apperror.EntityOf(err))
			}
		})
	}

	assert.Zero(t, f.countOrders(t))
}

func TestCreateOrderMergesRepeatedItems(t *testing.T) {
	f := newFixture(t)

	snap, err := f.orders.CreateOrder(context.Background(), &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: 2,
		Items: []order.LineItemRequest{
			{MenuItemID: f.b.ID, Quantity: 1},
			{MenuItemID: f.a.ID, Quantity: 1},
			{MenuItemID: f.b.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, f.b.ID, snap.Items[0].MenuItemID, "first-seen order is kept")
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.True(t, snap.TotalPrice.Equal(decimal.NewFromInt(250)))
}

func TestCreateOrderDefaultsToInitialStatus(t *testing.T) {
	f := newFixture(t)

	snap, err := f.orders.CreateOrder(context.Background(), &order.CreateOrderRequest{
		UserID:           5,
		DeliveryMethodID: 3,
		Items:            []order.LineItemRequest{{MenuItemID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, order.InitialStatus, snap.StatusName)
	assert.Equal(t, "EXPRESS", snap.DeliveryMethodName)
}

func TestTransitionStatusIsPermissive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snap, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: 1,
		Items:            []order.LineItemRequest{{MenuItemID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Pending -> Completed -> Pending -> Processing
	for _, target := range []uint{3, 1, 2} {
		var changed bool
		snap, changed, err = f.orders.TransitionStatus(ctx, snap.ID, &order.TransitionRequest{StatusID: target})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, target, snap.StatusID)
	}
	assert.Equal(t, "PROCESSING", snap.StatusName)

	stored, err := f.orders.GetOrder(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), stored.StatusID)

	// Same status is a no-op and records nothing
	_, changed, err := f.orders.TransitionStatus(ctx, snap.ID, &order.TransitionRequest{StatusID: 2})
	require.NoError(t, err)
	assert.False(t, changed)

	history, err := f.orders.GetStatusHistory(ctx, snap.ID)
	require.NoError(t, err)

	want := []struct{ from, to string }{
		{"", "PENDING"},
		{"PENDING", "COMPLETED"},
		{"COMPLETED", "PENDING"},
		{"PENDING", "PROCESSING"},
	}
	require.Len(t, history, len(want))
	for i, step := range want {
		assert.Equal(t, step.from, history[i].FromStatus, "step %d from", i)
		assert.Equal(t, step.to, history[i].ToStatus, "step %d to", i)
	}

	_, _, err = f.orders.TransitionStatus(ctx, snap.ID, &order.TransitionRequest{StatusID: 99})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = f.orders.TransitionStatus(ctx, 404, &order.TransitionRequest{StatusID: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.orders.GetStatusHistory(ctx, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.Checkout(ctx, 3, &order.CheckoutRequest{DeliveryMethodID: 1})
	assert.ErrorIs(t, err, apperror.ErrValidation, "empty cart")

	_, err = f.carts.AddToCart(ctx, 3, &cart.AddToCartRequest{MenuItemID: f.a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, 3, &cart.AddToCartRequest{MenuItemID: f.b.ID, Quantity: 1})
	require.NoError(t, err)

	snap, err := f.orders.Checkout(ctx, 3, &order.CheckoutRequest{DeliveryMethodID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.UserID)
	assert.True(t, snap.TotalPrice.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, order.InitialStatus, snap.StatusName)

	items, err := f.carts.Items(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, items, "checkout empties the cart")
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.AddToCart(ctx, 3, &cart.AddToCartRequest{MenuItemID: f.a.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.menu.SetAvailability(ctx, f.a.ID, false)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, 3, &order.CheckoutRequest{DeliveryMethodID: 1})
	require.ErrorIs(t, err, apperror.ErrValidation)

	items, err := f.carts.Items(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Zero(t, f.countOrders(t))
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, userID := range []int64{1, 2, 1} {
		_, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
			UserID:           userID,
			DeliveryMethodID: 1,
			Items:            []order.LineItemRequest{{MenuItemID: f.b.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	mine, err := f.orders.ListUserOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Greater(t, mine[0].ID, mine[1].ID, "newest first")

	none, err := f.orders.ListUserOrders(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)

	page, err := f.orders.ListOrders(ctx, order.OrderFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, page.Pagination)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	completed := uint(3)
	filtered, err := f.orders.ListOrders(ctx, order.OrderFilter{StatusID: &completed})
	require.NoError(t, err)
	assert.Empty(t, filtered.Orders)
	assert.Nil(t, filtered.Pagination)
}

func TestGetOrderUserIDAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snap, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           42,
		DeliveryMethodID: 1,
		Items:            []order.LineItemRequest{{MenuItemID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	userID, err := f.orders.GetOrderUserID(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, f.orders.DeleteOrder(ctx, snap.ID))
	_, err = f.orders.GetOrder(ctx, snap.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, f.orders.DeleteOrder(ctx, snap.ID), apperror.ErrNotFound)

	// With its order gone the item can be deleted again
	assert.NoError(t, f.menu.DeleteItem(ctx, f.a.ID))
}
