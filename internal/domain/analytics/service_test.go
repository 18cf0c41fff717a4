package analytics_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/analytics"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/domain/user"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/dbtest"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
)

func TestGetSalesReport(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	_, err := user.NewService(db).CreateUser(ctx, &user.CreateUserRequest{ID: 77})
	require.NoError(t, err)

	menu := catalog.NewMenuService(db)
	orders := order.NewService(db, &config.Config{}, menu, cart.NewService(db, menu))

	// Espresso 120, Cappuccino 190, Green Tea 150
	first, err := orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID: 77, DeliveryMethodID: 1,
		Items: []order.LineItemRequest{{MenuItemID: 1, Quantity: 2}, {MenuItemID: 4, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID: 77, DeliveryMethodID: 1,
		Items: []order.LineItemRequest{{MenuItemID: 1, Quantity: 1}, {MenuItemID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	_, _, err = orders.TransitionStatus(ctx, first.ID, &order.TransitionRequest{StatusID: 3})
	require.NoError(t, err)

	// A later price change leaves reported revenue alone
	newPrice := decimal.NewFromInt(999)
	_, err = menu.UpdateItem(ctx, 1, &catalog.MenuItemUpdateRequest{Price: &newPrice})
	require.NoError(t, err)

	report, err := analytics.NewService(db).GetSalesReport(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, analytics.DefaultDays, report.Days)
	assert.Equal(t, int64(2), report.OrderCount)
	assert.True(t, report.Revenue.Equal(decimal.NewFromInt(700)), report.Revenue.String())
	assert.True(t, report.AvgOrderValue.Equal(decimal.NewFromInt(350)), report.AvgOrderValue.String())

	require.Len(t, report.ByStatus, 3)
	assert.Equal(t, order.StatusPending, report.ByStatus[0].StatusName)
	assert.Equal(t, int64(1), report.ByStatus[0].OrderCount)
	assert.Equal(t, int64(0), report.ByStatus[1].OrderCount)
	assert.Equal(t, order.StatusCompleted, report.ByStatus[2].StatusName)
	assert.True(t, report.ByStatus[2].Revenue.Equal(decimal.NewFromInt(390)))

	require.Len(t, report.TopItems, 3)
	assert.Equal(t, "Espresso", report.TopItems[0].Name)
	assert.Equal(t, int64(3), report.TopItems[0].Quantity)
	assert.True(t, report.TopItems[0].Revenue.Equal(decimal.NewFromInt(360)))
}

func TestGetSalesReportEmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc := analytics.NewService(dbtest.New(t))

	report, err := svc.GetSalesReport(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, report.OrderCount)
	assert.True(t, report.Revenue.IsZero())
	assert.Empty(t, report.TopItems)
	assert.Len(t, report.ByStatus, 3)

	for _, days := range []int{-1, analytics.MaxDays + 1} {
		_, err := svc.GetSalesReport(ctx, days)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
}
