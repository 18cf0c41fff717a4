// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
)

// EntityCartItem names cart entries in typed errors
const EntityCartItem = "cart item"

// CartItem is one (user, menu item) line of a user's cart
type CartItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     int64           `gorm:"not null;uniqueIndex:idx_cart_user_item,priority:1" json:"user_id"`
	MenuItemID uint            `gorm:"not null;uniqueIndex:idx_cart_user_item,priority:2;index" json:"menu_item_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"` // Quantity * price at last mutation
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	MenuItem *catalog.MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"menu_item,omitempty"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int             `json:"item_count"`     // Number of distinct items
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// CartResponse represents a user's cart with its entries and summary
type CartResponse struct {
	UserID int64      `json:"user_id"`
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}
