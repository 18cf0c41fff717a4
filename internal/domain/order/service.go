// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// Service builds orders and drives their status
type Service struct {
	db          *gorm.DB
	config      *config.Config
	menu        *catalog.MenuService
	cartService *cart.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, menu *catalog.MenuService, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		menu:        menu,
		cartService: cartService,
	}
}

// LineItemRequest is one requested (menu item, quantity) pair
type LineItemRequest struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"gte=1"`
}

// CreateOrderRequest represents order creation data. A zero StatusID places
// the order in the initial status.
type CreateOrderRequest struct {
	UserID           int64             `json:"user_id" validate:"required"`
	DeliveryMethodID uint              `json:"delivery_method_id" validate:"required"`
	StatusID         uint              `json:"status_id"`
	Items            []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutRequest turns a user's cart into an order
type CheckoutRequest struct {
	DeliveryMethodID uint `json:"delivery_method_id" validate:"required"`
}

// OrderFilter narrows ListOrders. Limit 0 returns every matching order.
type OrderFilter struct {
	UserID   *int64
	StatusID *uint
	Page     int
	Limit    int
}

// Pagination describes the page returned by ListOrders
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// OrderList is a list of order snapshots, with pagination when a limit was requested
type OrderList struct {
	Orders     []OrderSnapshot `json:"orders"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// CreateOrder validates every requested item against the catalog, prices the
// order at the current catalog prices and persists it with its line items in
// one transaction. Any missing item aborts the whole order.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderSnapshot, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	lines := mergeLines(req.Items)

	var orderID uint
	err := s.inTransaction(ctx, func(tx *gorm.DB) error {
		order, err := s.createInTx(ctx, tx, req.UserID, req.DeliveryMethodID, req.StatusID, lines)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// Checkout creates an order from the user's cart in the initial status and
// empties the cart in the same transaction
func (s *Service) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*OrderSnapshot, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var orderID uint
	err := s.inTransaction(ctx, func(tx *gorm.DB) error {
		cartTx := s.cartService.WithTx(tx)

		entries, err := cartTx.Items(ctx, userID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return apperror.Validation("cart is empty")
		}

		lines := make([]LineItemRequest, len(entries))
		for i, entry := range entries {
			lines[i] = LineItemRequest{MenuItemID: entry.MenuItemID, Quantity: entry.Quantity}
		}

		order, err := s.createInTx(ctx, tx, userID, req.DeliveryMethodID, 0, lines)
		if err != nil {
			return err
		}
		orderID = order.ID

		return cartTx.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// createInTx performs the validated insert of an order. lines must already be merged.
func (s *Service) createInTx(ctx context.Context, tx *gorm.DB, userID int64, deliveryMethodID, statusID uint, lines []LineItemRequest) (*Order, error) {
	// Delivery method and status must exist before any item is looked at
	var method DeliveryMethod
	if err := tx.First(&method, deliveryMethodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityDeliveryMethod, deliveryMethodID)
		}
		return nil, fmt.Errorf("failed to retrieve delivery method: %w", err)
	}

	status, err := findStatus(tx, statusID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.MenuItemID
	}
	items, err := s.menu.WithTx(tx).ItemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Fail on the first missing item in request order; nothing has been written yet
	total := decimal.Zero
	lineItems := make([]OrderLineItem, 0, len(lines))
	for i, line := range lines {
		item, ok := items[line.MenuItemID]
		if !ok {
			return nil, apperror.NotFound(catalog.EntityMenuItem, line.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, apperror.Validation("menu item %q is currently unavailable", item.Name)
		}

		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lineItems = append(lineItems, OrderLineItem{
			MenuItemID: item.ID,
			Position:   i,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   line.Quantity,
		})
	}

	order := &Order{
		UserID:           userID,
		DeliveryMethodID: method.ID,
		StatusID:         status.ID,
		TotalPrice:       total,
	}
	if err := tx.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", apperror.FromDB(err, EntityOrder))
	}

	for i := range lineItems {
		lineItems[i].OrderID = order.ID
	}
	if err := tx.Create(&lineItems).Error; err != nil {
		return nil, fmt.Errorf("failed to create order line items: %w", apperror.FromDB(err, EntityOrder))
	}

	history := OrderStatusHistory{OrderID: order.ID, ToStatusID: status.ID}
	if err := tx.Create(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	return order, nil
}

// GetOrder retrieves a single order snapshot by ID
func (s *Service) GetOrder(ctx context.Context, id uint) (*OrderSnapshot, error) {
	var order Order
	err := s.withDetails(s.db.WithContext(ctx)).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityOrder, id)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	return order.Snapshot(), nil
}

// ListOrders retrieves order snapshots, newest first
func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) (*OrderList, error) {
	query := s.db.WithContext(ctx).Model(&Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StatusID != nil {
		query = query.Where("status_id = ?", *filter.StatusID)
	}

	var pagination *Pagination
	if filter.Limit > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}

		totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
		pagination = &Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		}
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var orders []Order
	if err := s.withDetails(query).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	list := &OrderList{Orders: make([]OrderSnapshot, 0, len(orders)), Pagination: pagination}
	for i := range orders {
		list.Orders = append(list.Orders, *orders[i].Snapshot())
	}

	return list, nil
}

// ListUserOrders retrieves every order placed by the user
func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]OrderSnapshot, error) {
	list, err := s.ListOrders(ctx, OrderFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return list.Orders, nil
}

// GetOrderUserID returns the ID of the user who placed the order
func (s *Service) GetOrderUserID(ctx context.Context, id uint) (int64, error) {
	var order Order
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.NotFound(EntityOrder, id)
		}
		return 0, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return order.UserID, nil
}

// DeleteOrder removes an order with its line items and history. This is an
// administrative override; orders are never deleted in normal flow.
func (s *Service) DeleteOrder(ctx context.Context, id uint) error {
	return s.inTransaction(ctx, func(tx *gorm.DB) error {
		var order Order
		if err := tx.Select("id").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(EntityOrder, id)
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&OrderStatusHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete status history: %w", err)
		}
		if err := tx.Where("order_id = ?", id).Delete(&OrderLineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order line items: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

func (s *Service) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("DeliveryMethod").
		Preload("Status").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// inTransaction runs fn in a transaction, rolling back on any error. Commits
// that fail with a Postgres serialization failure or deadlock are retried up
// to the configured number of times.
func (s *Service) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	retries := 0
	if s.config != nil {
		retries = s.config.Database.TxRetries
	}

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = s.runTransaction(ctx, fn)
		if err == nil || !apperror.Retryable(err) || ctx.Err() != nil {
			break
		}
	}

	return apperror.FromTx(err)
}

func (s *Service) runTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// mergeLines folds repeated menu items into one line, keeping first-seen order
func mergeLines(items []LineItemRequest) []LineItemRequest {
	index := make(map[uint]int, len(items))
	merged := make([]LineItemRequest, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.MenuItemID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.MenuItemID] = len(merged)
		merged = append(merged, item)
	}

	return merged
}
