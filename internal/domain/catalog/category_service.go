// internal/domain/catalog/category_service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// CategoryService handles menu category business logic
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryRequest carries the name for category creation and rename
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryWithItemCount represents a category with the number of its items
type CategoryWithItemCount struct {
	MenuCategory
	ItemCount int64 `json:"item_count"`
}

// ListCategories retrieves all categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context) ([]MenuCategory, error) {
	categories := []MenuCategory{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve menu categories: %w", err)
	}
	return categories, nil
}

// ListCategoriesWithItemCount retrieves categories with the number of available items in each
func (s *CategoryService) ListCategoriesWithItemCount(ctx context.Context) ([]CategoryWithItemCount, error) {
	result := []CategoryWithItemCount{}
	err := s.db.WithContext(ctx).
		Model(&MenuCategory{}).
		Select("menu_categories.*, COUNT(menu_items.id) AS item_count").
		Joins("LEFT JOIN menu_items ON menu_items.category_id = menu_categories.id AND menu_items.is_available = ?", true).
		Group("menu_categories.id").
		Order("menu_categories.name ASC").
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve menu categories: %w", err)
	}
	return result, nil
}

// GetCategory retrieves a single category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*MenuCategory, error) {
	var category MenuCategory
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityMenuCategory, id)
		}
		return nil, fmt.Errorf("failed to retrieve menu category: %w", err)
	}
	return &category, nil
}

// CreateCategory creates a new menu category
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*MenuCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueName(db, &MenuCategory{}, EntityMenuCategory, req.Name, 0); err != nil {
		return nil, err
	}

	category := &MenuCategory{Name: req.Name}
	if err := db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu category: %w", apperror.FromDB(err, EntityMenuCategory))
	}

	return category, nil
}

// RenameCategory changes the category name
func (s *CategoryService) RenameCategory(ctx context.Context, id uint, req *CategoryRequest) (*MenuCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueName(db, &MenuCategory{}, EntityMenuCategory, req.Name, id); err != nil {
		return nil, err
	}

	if err := db.Model(category).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename menu category: %w", apperror.FromDB(err, EntityMenuCategory))
	}

	category.Name = req.Name
	return category, nil
}

// DeleteCategory deletes a category together with its items. It fails with a
// Conflict when any of those items appears in an order.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category MenuCategory
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(EntityMenuCategory, id)
			}
			return err
		}

		var items []MenuItem
		if err := tx.Where("category_id = ?", id).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load category items: %w", err)
		}

		if err := deleteItems(tx, items); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				return apperror.Conflict(EntityMenuCategory, "%q cannot be deleted: %v", category.Name, err)
			}
			return err
		}

		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete menu category: %w", apperror.FromDB(err, EntityMenuCategory))
		}
		return nil
	})

	return apperror.FromTx(err)
}
