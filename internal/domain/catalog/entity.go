// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity names used in typed errors
const (
	EntityMenuItem     = "menu item"
	EntityMenuCategory = "menu category"
	EntityProduct      = "product"
)

// MenuCategory groups menu items, e.g. "Coffee" or "Desserts"
type MenuCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (MenuCategory) TableName() string {
	return "menu_categories"
}

// MenuItem is a catalog entry that can be put in a cart and ordered
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null;size:255" json:"name"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Weight      float64         `gorm:"not null" json:"weight"` // grams or millilitres
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;index" json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Category *MenuCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
}

// TableName overrides the table name
func (MenuItem) TableName() string {
	return "menu_items"
}

// Product is a retail stock entry (beans, merchandise) sold over the counter
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	InStock   bool            `gorm:"not null" json:"in_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// Tables holding rows that point at menu items. Kept as names so the catalog
// does not depend on the cart and order packages.
const (
	cartItemsTable      = "cart_items"
	orderLineItemsTable = "order_line_items"
)
