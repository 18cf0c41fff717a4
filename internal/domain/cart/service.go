// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart business logic
type Service struct {
	db   *gorm.DB
	menu *catalog.MenuService
}

// NewService creates a new cart service
func NewService(db *gorm.DB, menu *catalog.MenuService) *Service {
	return &Service{
		db:   db,
		menu: menu,
	}
}

// WithTx returns a copy of the service that runs its queries inside tx
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, menu: s.menu.WithTx(tx)}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"gte=1"`
}

// UpdateCartItemRequest represents update cart item request; quantity 0 removes the entry
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// GetCart retrieves the user's cart in insertion order
func (s *Service) GetCart(ctx context.Context, userID int64) (*CartResponse, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CartResponse{
		UserID: userID,
		Items:  items,
		Totals: calculateTotals(items),
	}, nil
}

// Items returns the user's cart entries in insertion order
func (s *Service) Items(ctx context.Context, userID int64) ([]CartItem, error) {
	items := []CartItem{}
	err := s.db.WithContext(ctx).
		Preload("MenuItem").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
	}
	return items, nil
}

// AddToCart adds quantity units of a menu item. An existing entry for the same
// item is incremented and its total re-priced at the item's current price.
func (s *Service) AddToCart(ctx context.Context, userID int64, req *AddToCartRequest) (*CartItem, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	item, err := s.menu.GetItem(ctx, req.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, apperror.Validation("menu item %q is currently unavailable", item.Name)
	}

	entry := &CartItem{
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   req.Quantity,
		TotalPrice: item.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}

	// One row per (user, item): a concurrent add lands on the unique index and becomes an increment
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":    gorm.Expr("cart_items.quantity + excluded.quantity"),
			"total_price": gorm.Expr("(cart_items.quantity + excluded.quantity) * CAST(? AS DECIMAL(10,2))", item.Price.String()),
			"updated_at":  time.Now().UTC(),
		}),
	}).Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", apperror.FromDB(err, EntityCartItem))
	}

	return s.getEntry(ctx, userID, item.ID)
}

// UpdateCartItem sets the quantity of an existing entry; quantity 0 removes it.
// The entry is re-priced at the item's current price.
func (s *Service) UpdateCartItem(ctx context.Context, userID int64, menuItemID uint, req *UpdateCartItemRequest) (*CartItem, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	entry, err := s.getEntry(ctx, userID, menuItemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity == 0 {
		if _, err := s.RemoveFromCart(ctx, userID, menuItemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item, err := s.menu.GetItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&CartItem{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"quantity":    req.Quantity,
		"total_price": item.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.getEntry(ctx, userID, menuItemID)
}

// RemoveFromCart removes the user's entry for the item and reports whether one existed
func (s *Service) RemoveFromCart(ctx context.Context, userID int64, menuItemID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Delete(&CartItem{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ClearCart removes every entry of the user's cart. Clearing an empty cart succeeds.
func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) getEntry(ctx context.Context, userID int64, menuItemID uint) (*CartItem, error) {
	var entry CartItem
	err := s.db.WithContext(ctx).
		Preload("MenuItem").
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityCartItem, menuItemID)
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}
	return &entry, nil
}

// calculateTotals sums the cart using the stored per-entry totals
func calculateTotals(items []CartItem) CartTotals {
	totals := CartTotals{TotalPrice: decimal.Zero}
	for _, item := range items {
		totals.ItemCount++
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(item.TotalPrice)
	}
	return totals
}
