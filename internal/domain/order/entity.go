// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
)

// Entity names used in typed errors
const (
	EntityOrder          = "order"
	EntityStatus         = "order status"
	EntityDeliveryMethod = "delivery method"
)

// Seeded status names. New orders start in StatusPending.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"

	InitialStatus = StatusPending
)

// Seeded delivery method names
const (
	DeliveryPickup   = "PICKUP"
	DeliveryDelivery = "DELIVERY"
	DeliveryExpress  = "EXPRESS"
)

// Order represents the order entity. TotalPrice is fixed when the order is created.
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           int64           `gorm:"not null;index" json:"user_id"`
	DeliveryMethodID uint            `gorm:"not null;index" json:"delivery_method_id"`
	StatusID         uint            `gorm:"not null;index" json:"status_id"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	CreatedAt        time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	DeliveryMethod *DeliveryMethod      `gorm:"foreignKey:DeliveryMethodID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"delivery_method,omitempty"`
	Status         *Status              `gorm:"foreignKey:StatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"status,omitempty"`
	Items          []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory  []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderLineItem is one menu item within an order. Name and UnitPrice are
// copied from the catalog at creation and never re-read from it.
type OrderLineItem struct {
	OrderID    uint            `gorm:"primaryKey" json:"order_id"`
	MenuItemID uint            `gorm:"primaryKey;index" json:"menu_item_id"`
	Position   int             `gorm:"not null" json:"-"`
	Name       string          `gorm:"not null;size:255" json:"name"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity   int             `gorm:"not null" json:"quantity"`

	MenuItem *catalog.MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// Status is a row of the shared order status lookup table
type Status struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

// DeliveryMethod is a row of the delivery method lookup table
type DeliveryMethod struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	FromStatusID *uint     `json:"from_status_id"` // nil for the creation entry
	ToStatusID   uint      `gorm:"not null;index" json:"to_status_id"`
	CreatedAt    time.Time `json:"created_at"`

	FromStatus *Status `gorm:"foreignKey:FromStatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	ToStatus   *Status `gorm:"foreignKey:ToStatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderLineItem) TableName() string      { return "order_line_items" }
func (Status) TableName() string             { return "order_statuses" }
func (DeliveryMethod) TableName() string     { return "delivery_methods" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// OrderSnapshot is the read model returned for every order: lookups resolved
// to names and line items as they were charged.
type OrderSnapshot struct {
	ID                 uint               `json:"id"`
	UserID             int64              `json:"user_id"`
	DeliveryMethodID   uint               `json:"delivery_method_id"`
	DeliveryMethodName string             `json:"delivery_method_name"`
	StatusID           uint               `json:"status_id"`
	StatusName         string             `json:"status_name"`
	TotalPrice         decimal.Decimal    `json:"total_price"`
	CreatedAt          time.Time          `json:"created_at"`
	Items              []LineItemSnapshot `json:"items"`
}

// LineItemSnapshot is one line of an OrderSnapshot
type LineItemSnapshot struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// StatusChange is one resolved entry of an order's status history
type StatusChange struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// Snapshot builds the read model. DeliveryMethod, Status and Items must be loaded.
func (o *Order) Snapshot() *OrderSnapshot {
	snap := &OrderSnapshot{
		ID:               o.ID,
		UserID:           o.UserID,
		DeliveryMethodID: o.DeliveryMethodID,
		StatusID:         o.StatusID,
		TotalPrice:       o.TotalPrice,
		CreatedAt:        o.CreatedAt,
		Items:            make([]LineItemSnapshot, 0, len(o.Items)),
	}
	if o.DeliveryMethod != nil {
		snap.DeliveryMethodName = o.DeliveryMethod.Name
	}
	if o.Status != nil {
		snap.StatusName = o.Status.Name
	}

	for _, item := range o.Items {
		snap.Items = append(snap.Items, LineItemSnapshot{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			LineTotal:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return snap
}
