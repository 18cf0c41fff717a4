// internal/domain/catalog/product_service.go
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

// ProductService handles retail product business logic
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name    string          `json:"name" validate:"required,max=255"`
	Price   decimal.Decimal `json:"price" validate:"dpositive"`
	InStock *bool           `json:"in_stock"` // defaults to true
}

// ProductUpdateRequest represents a partial product update
type ProductUpdateRequest struct {
	Name    *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price   *decimal.Decimal `json:"price" validate:"omitempty,dpositive"`
	InStock *bool            `json:"in_stock"`
}

// ListProducts retrieves products, optionally only those with the given stock state
func (s *ProductService) ListProducts(ctx context.Context, inStock *bool) ([]Product, error) {
	query := s.db.WithContext(ctx).Order("id ASC")
	if inStock != nil {
		query = query.Where("in_stock = ?", *inStock)
	}

	products := []Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a single product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityProduct, id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueName(db, &Product{}, EntityProduct, req.Name, 0); err != nil {
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &Product{Name: req.Name, Price: req.Price, InStock: inStock}
	if err := db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", apperror.FromDB(err, EntityProduct))
	}

	return product, nil
}

// UpdateProduct applies the provided fields of req to the product
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *ProductUpdateRequest) (*Product, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	updates := map[string]interface{}{}

	if req.Name != nil {
		if err := ensureUniqueName(db, &Product{}, EntityProduct, *req.Name, id); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}

	if len(updates) > 0 {
		if err := db.Model(&Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", apperror.FromDB(err, EntityProduct))
		}
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", apperror.FromDB(result.Error, EntityProduct))
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(EntityProduct, id)
	}
	return nil
}
