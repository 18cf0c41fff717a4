// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

const (
	DefaultDays = 30
	MaxDays     = 365
	topItems    = 10
)

// Service builds sales reports for the café staff
type Service struct {
	db *gorm.DB
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SalesReport summarises the orders placed within the last Days days
type SalesReport struct {
	Days          int             `json:"days"`
	Since         time.Time       `json:"since"`
	OrderCount    int64           `json:"order_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	ByStatus      []StatusSummary `json:"by_status"`
	TopItems      []ItemSales     `json:"top_items"`
}

// StatusSummary is the number and value of orders currently in one status
type StatusSummary struct {
	StatusID   uint            `json:"status_id"`
	StatusName string          `json:"status_name"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ItemSales is how much of one menu item was sold, at the prices charged
type ItemSales struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// GetSalesReport reports on orders created in the last days days; 0 means DefaultDays.
// Revenue comes from the order and line item snapshots, so later catalog
// price changes do not rewrite history.
func (s *Service) GetSalesReport(ctx context.Context, days int) (*SalesReport, error) {
	if days == 0 {
		days = DefaultDays
	}
	if days < 0 || days > MaxDays {
		return nil, apperror.Validation("days must be between 1 and %d", MaxDays)
	}

	db := s.db.WithContext(ctx)
	report := &SalesReport{
		Days:  days,
		Since: time.Now().UTC().AddDate(0, 0, -days),
	}

	var totals struct {
		OrderCount int64
		Revenue    decimal.Decimal
	}
	err := db.Model(&order.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("created_at >= ?", report.Since).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order totals: %w", err)
	}
	report.OrderCount = totals.OrderCount
	report.Revenue = totals.Revenue
	report.AvgOrderValue = decimal.Zero
	if totals.OrderCount > 0 {
		report.AvgOrderValue = totals.Revenue.Div(decimal.NewFromInt(totals.OrderCount)).Round(2)
	}

	report.ByStatus = []StatusSummary{}
	err = db.Model(&order.Status{}).
		Select("order_statuses.id AS status_id, order_statuses.name AS status_name, " +
			"COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total_price), 0) AS revenue").
		Joins("LEFT JOIN orders ON orders.status_id = order_statuses.id AND orders.created_at >= ?", report.Since).
		Group("order_statuses.id, order_statuses.name").
		Order("order_statuses.id ASC").
		Scan(&report.ByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by status: %w", err)
	}

	report.TopItems = []ItemSales{}
	err = db.Model(&order.OrderLineItem{}).
		Select("order_line_items.menu_item_id, MAX(order_line_items.name) AS name, " +
			"SUM(order_line_items.quantity) AS quantity, " +
			"COALESCE(SUM(order_line_items.unit_price * order_line_items.quantity), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Where("orders.created_at >= ?", report.Since).
		Group("order_line_items.menu_item_id").
		Order("quantity DESC, order_line_items.menu_item_id ASC").
		Limit(topItems).
		Scan(&report.TopItems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top items: %w", err)
	}

	return report, nil
}
