// internal/infrastructure/notify/publisher.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/order"
)

// Event types published on the order channel
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the JSON message the bot consumes to notify customers and baristas
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OrderID    uint            `json:"order_id"`
	UserID     int64           `json:"user_id"`
	StatusID   uint            `json:"status_id"`
	StatusName string          `json:"status_name"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent builds an event of the given type from an order snapshot
func NewEvent(eventType string, snap *order.OrderSnapshot) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    snap.ID,
		UserID:     snap.UserID,
		StatusID:   snap.StatusID,
		StatusName: snap.StatusName,
		TotalPrice: snap.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes events on a Redis pub/sub channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

// NewRedisPublisher creates a publisher for channel
func NewRedisPublisher(client *redis.Client, channel string, log *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, log: log}
}

// Publish encodes the event and sends it to the channel
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.log.WithFields(logrus.Fields{
		"event":     event.Type,
		"order_id":  event.OrderID,
		"receivers": receivers,
	}).Debug("Order event published")
	return nil
}

// NopPublisher drops every event. Used when notifications are disabled.
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, Event) error { return nil }
