// internal/domain/order/delivery_service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// DeliveryService manages the delivery method lookup table
type DeliveryService struct {
	db *gorm.DB
}

// NewDeliveryService creates a new delivery method service
func NewDeliveryService(db *gorm.DB) *DeliveryService {
	return &DeliveryService{db: db}
}

// ListDeliveryMethods retrieves all delivery methods
func (s *DeliveryService) ListDeliveryMethods(ctx context.Context) ([]DeliveryMethod, error) {
	methods := []DeliveryMethod{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve delivery methods: %w", err)
	}
	return methods, nil
}

// GetDeliveryMethod retrieves a delivery method by ID
func (s *DeliveryService) GetDeliveryMethod(ctx context.Context, id uint) (*DeliveryMethod, error) {
	var method DeliveryMethod
	if err := s.db.WithContext(ctx).First(&method, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityDeliveryMethod, id)
		}
		return nil, fmt.Errorf("failed to retrieve delivery method: %w", err)
	}
	return &method, nil
}

// CreateDeliveryMethod adds a delivery method with a unique name
func (s *DeliveryService) CreateDeliveryMethod(ctx context.Context, req *NameRequest) (*DeliveryMethod, error) {
	req.Name = normalizeName(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueLookup(db, &DeliveryMethod{}, EntityDeliveryMethod, req.Name, 0); err != nil {
		return nil, err
	}

	method := &DeliveryMethod{Name: req.Name}
	if err := db.Create(method).Error; err != nil {
		return nil, fmt.Errorf("failed to create delivery method: %w", apperror.FromDB(err, EntityDeliveryMethod))
	}
	return method, nil
}

// DeleteDeliveryMethod removes a delivery method no order refers to
func (s *DeliveryService) DeleteDeliveryMethod(ctx context.Context, id uint) error {
	method, err := s.GetDeliveryMethod(ctx, id)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	var refs int64
	if err := db.Model(&Order{}).Where("delivery_method_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count orders: %w", err)
	}
	if refs > 0 {
		return apperror.Conflict(EntityDeliveryMethod, "%q is used by %d order(s)", method.Name, refs)
	}

	if err := db.Delete(method).Error; err != nil {
		return fmt.Errorf("failed to delete delivery method: %w", apperror.FromDB(err, EntityDeliveryMethod))
	}
	return nil
}
