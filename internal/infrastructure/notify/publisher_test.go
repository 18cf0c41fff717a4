package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/pkg/logger"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(ctx, "cafe:test")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisPublisher(client, "cafe:test", logger.Discard())
	event := NewEvent(EventOrderCreated, &order.OrderSnapshot{
		ID:         12,
		UserID:     7,
		StatusID:   1,
		StatusName: order.StatusPending,
		TotalPrice: decimal.NewFromInt(250),
	})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-sub.Channel():
		var got Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, EventOrderCreated, got.Type)
		assert.Equal(t, uint(12), got.OrderID)
		assert.Equal(t, int64(7), got.UserID)
		assert.Equal(t, order.StatusPending, got.StatusName)
		assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(250)))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestRedisPublisherFailsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	publisher := NewRedisPublisher(client, "cafe:test", logger.Discard())
	err := publisher.Publish(context.Background(), NewEvent(EventOrderStatusChanged, &order.OrderSnapshot{ID: 1}))
	assert.Error(t, err)
}

func TestNewEventIDsAreUnique(t *testing.T) {
	snap := &order.OrderSnapshot{ID: 1}
	assert.NotEqual(t, NewEvent(EventOrderCreated, snap).ID, NewEvent(EventOrderCreated, snap).ID)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
