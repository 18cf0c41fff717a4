package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/dbtest"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
)

func TestStatuses(t *testing.T) {
	ctx := context.Background()
	statuses := order.NewStatusService(dbtest.New(t))

	all, err := statuses.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, order.StatusPending, all[0].Name)

	initial, err := statuses.InitialStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), initial.ID)

	created, err := statuses.CreateStatus(ctx, &order.NameRequest{Name: " cancelled "})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", created.Name)

	_, err = statuses.CreateStatus(ctx, &order.NameRequest{Name: "Cancelled"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	renamed, err := statuses.RenameStatus(ctx, created.ID, &order.NameRequest{Name: "canceled"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", renamed.Name)

	_, err = statuses.RenameStatus(ctx, created.ID, &order.NameRequest{Name: "pending"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, statuses.DeleteStatus(ctx, created.ID))
	_, err = statuses.GetStatus(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteStatusInUseConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	statuses := order.NewStatusService(f.db)

	snap, err := f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: 1,
		Items:            []order.LineItemRequest{{MenuItemID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, statuses.DeleteStatus(ctx, 1), apperror.ErrConflict)

	// Moving the order away still leaves PENDING in its history
	_, _, err = f.orders.TransitionStatus(ctx, snap.ID, &order.TransitionRequest{StatusID: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, statuses.DeleteStatus(ctx, 1), apperror.ErrConflict)

	assert.NoError(t, statuses.DeleteStatus(ctx, 3))
}

func TestDeliveryMethods(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	methods := order.NewDeliveryService(f.db)

	all, err := methods.ListDeliveryMethods(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, order.DeliveryPickup, all[0].Name)

	created, err := methods.CreateDeliveryMethod(ctx, &order.NameRequest{Name: "courier"})
	require.NoError(t, err)
	assert.Equal(t, "COURIER", created.Name)

	_, err = methods.CreateDeliveryMethod(ctx, &order.NameRequest{Name: "PICKUP"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = methods.CreateDeliveryMethod(ctx, &order.NameRequest{Name: "  "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.orders.CreateOrder(ctx, &order.CreateOrderRequest{
		UserID:           1,
		DeliveryMethodID: created.ID,
		Items:            []order.LineItemRequest{{MenuItemID: f.b.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, methods.DeleteDeliveryMethod(ctx, created.ID), apperror.ErrConflict)
	assert.NoError(t, methods.DeleteDeliveryMethod(ctx, 3))
	assert.ErrorIs(t, methods.DeleteDeliveryMethod(ctx, 3), apperror.ErrNotFound)
}
