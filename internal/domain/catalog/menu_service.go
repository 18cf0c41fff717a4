// internal/domain/catalog/menu_service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// MenuService is the catalog store for menu items
type MenuService struct {
	db *gorm.DB
}

// NewMenuService creates a new menu service
func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// WithTx returns a copy of the service that runs its queries inside tx
func (s *MenuService) WithTx(tx *gorm.DB) *MenuService {
	return &MenuService{db: tx}
}

// MenuItemCreateRequest represents menu item creation data
type MenuItemCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	CategoryID  uint            `json:"category_id" validate:"required"`
	Weight      float64         `json:"weight" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"dpositive"`
	IsAvailable *bool           `json:"is_available"` // defaults to true
}

// MenuItemUpdateRequest represents a partial menu item update; nil fields are left untouched
type MenuItemUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,gt=0"`
	Weight      *float64         `json:"weight" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,dpositive"`
	IsAvailable *bool            `json:"is_available"`
}

// MenuItemFilter narrows ListItems; nil fields do not filter
type MenuItemFilter struct {
	CategoryID  *uint
	IsAvailable *bool
}

// CreateItem adds a new item to the menu
func (s *MenuService) CreateItem(ctx context.Context, req *MenuItemCreateRequest) (*MenuItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if err := ensureCategory(db, req.CategoryID); err != nil {
		return nil, err
	}
	if err := ensureUniqueName(db, &MenuItem{}, EntityMenuItem, req.Name, 0); err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := &MenuItem{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Weight:      req.Weight,
		Price:       req.Price,
		IsAvailable: available,
	}

	if err := db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", apperror.FromDB(err, EntityMenuItem))
	}

	return item, nil
}

// GetItem retrieves a single menu item by ID
func (s *MenuService) GetItem(ctx context.Context, id uint) (*MenuItem, error) {
	var item MenuItem
	err := s.db.WithContext(ctx).Preload("Category").First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityMenuItem, id)
		}
		return nil, fmt.Errorf("failed to retrieve menu item: %w", err)
	}

	return &item, nil
}

// ListItems returns the menu items matching filter. The result is read fresh on every call.
func (s *MenuService) ListItems(ctx context.Context, filter MenuItemFilter) ([]MenuItem, error) {
	query := s.db.WithContext(ctx).Model(&MenuItem{}).Preload("Category").Order("id ASC")

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}

	items := []MenuItem{}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve menu items: %w", err)
	}

	return items, nil
}

// ItemsByID loads the given items keyed by ID. Missing IDs are simply absent from the map.
func (s *MenuService) ItemsByID(ctx context.Context, ids []uint) (map[uint]MenuItem, error) {
	result := make(map[uint]MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []MenuItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve menu items: %w", err)
	}

	for _, item := range items {
		result[item.ID] = item
	}

	return result, nil
}

// UpdateItem applies the provided fields of req to the item
func (s *MenuService) UpdateItem(ctx context.Context, id uint, req *MenuItemUpdateRequest) (*MenuItem, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		if err := ensureUniqueName(db, &MenuItem{}, EntityMenuItem, *req.Name, id); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.CategoryID != nil {
		if err := ensureCategory(db, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := db.Model(&MenuItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update menu item: %w", apperror.FromDB(err, EntityMenuItem))
		}
	}

	return s.GetItem(ctx, id)
}

// SetAvailability toggles whether the item can be ordered
func (s *MenuService) SetAvailability(ctx context.Context, id uint, available bool) (*MenuItem, error) {
	return s.UpdateItem(ctx, id, &MenuItemUpdateRequest{IsAvailable: &available})
}

// DeleteItem removes an item from the menu. Items referenced by past orders
// cannot be deleted; cart entries for the item are dropped with it.
func (s *MenuService) DeleteItem(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(EntityMenuItem, id)
			}
			return err
		}

		return deleteItems(tx, []MenuItem{item})
	})

	return apperror.FromTx(err)
}

// deleteItems hard-deletes items that no order line references
func deleteItems(tx *gorm.DB, items []MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	var refs int64
	if err := tx.Table(orderLineItemsTable).Where("menu_item_id IN ?", ids).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count order references: %w", err)
	}
	if refs > 0 {
		if len(items) == 1 {
			return apperror.Conflict(EntityMenuItem, "%q is referenced by %d order line(s); mark it unavailable instead", items[0].Name, refs)
		}
		return apperror.Conflict(EntityMenuItem, "%d order line(s) reference items in this category", refs)
	}

	if err := tx.Exec("DELETE FROM "+cartItemsTable+" WHERE menu_item_id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to remove cart entries: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&MenuItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete menu items: %w", apperror.FromDB(err, EntityMenuItem))
	}

	return nil
}

func ensureCategory(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&MenuCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check menu category: %w", err)
	}
	if count == 0 {
		return apperror.NotFound(EntityMenuCategory, id)
	}
	return nil
}

// ensureUniqueName fails with DuplicateName when another row of model already uses name
func ensureUniqueName(db *gorm.DB, model interface{}, entity, name string, excludeID uint) error {
	query := db.Model(model).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s name: %w", entity, err)
	}
	if count > 0 {
		return apperror.DuplicateName(entity, name)
	}
	return nil
}
