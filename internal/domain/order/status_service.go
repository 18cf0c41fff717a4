// internal/domain/order/status_service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusService manages the order status lookup table
type StatusService struct {
	db *gorm.DB
}

// NewStatusService creates a new status service
func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// NameRequest carries a lookup name for creation and rename
type NameRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// TransitionRequest represents a status change of an order
type TransitionRequest struct {
	StatusID uint `json:"status_id" validate:"required"`
}

// ListStatuses retrieves all statuses in seed order
func (s *StatusService) ListStatuses(ctx context.Context) ([]Status, error) {
	statuses := []Status{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve order statuses: %w", err)
	}
	return statuses, nil
}

// GetStatus retrieves a status by ID
func (s *StatusService) GetStatus(ctx context.Context, id uint) (*Status, error) {
	return findStatus(s.db.WithContext(ctx), id)
}

// InitialStatus returns the status new orders start in
func (s *StatusService) InitialStatus(ctx context.Context) (*Status, error) {
	return findStatus(s.db.WithContext(ctx), 0)
}

// CreateStatus adds a status with a unique name
func (s *StatusService) CreateStatus(ctx context.Context, req *NameRequest) (*Status, error) {
	req.Name = normalizeName(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueLookup(db, &Status{}, EntityStatus, req.Name, 0); err != nil {
		return nil, err
	}

	status := &Status{Name: req.Name}
	if err := db.Create(status).Error; err != nil {
		return nil, fmt.Errorf("failed to create order status: %w", apperror.FromDB(err, EntityStatus))
	}
	return status, nil
}

// RenameStatus changes a status name, keeping names unique
func (s *StatusService) RenameStatus(ctx context.Context, id uint, req *NameRequest) (*Status, error) {
	req.Name = normalizeName(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	status, err := s.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueLookup(db, &Status{}, EntityStatus, req.Name, id); err != nil {
		return nil, err
	}

	if err := db.Model(status).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename order status: %w", apperror.FromDB(err, EntityStatus))
	}
	status.Name = req.Name
	return status, nil
}

// DeleteStatus removes a status no order or history entry refers to
func (s *StatusService) DeleteStatus(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status, err := findStatus(tx, id)
		if err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&Order{}).Where("status_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		if refs == 0 {
			err := tx.Model(&OrderStatusHistory{}).
				Where("from_status_id = ? OR to_status_id = ?", id, id).
				Count(&refs).Error
			if err != nil {
				return fmt.Errorf("failed to count status history: %w", err)
			}
		}
		if refs > 0 {
			return apperror.Conflict(EntityStatus, "%q is used by existing orders", status.Name)
		}

		return tx.Delete(status).Error
	})

	return apperror.FromTx(err)
}

// TransitionStatus moves an order to another status. Any status may follow any
// other, including moving a completed order back to pending. The returned flag
// reports whether the status actually changed.
func (s *Service) TransitionStatus(ctx context.Context, orderID uint, req *TransitionRequest) (*OrderSnapshot, bool, error) {
	if err := validation.Struct(req); err != nil {
		return nil, false, err
	}

	var changed bool
	err := s.inTransaction(ctx, func(tx *gorm.DB) error {
		changed = false

		var order Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status_id").
			First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(EntityOrder, orderID)
			}
			return err
		}

		status, err := findStatus(tx, req.StatusID)
		if err != nil {
			return err
		}

		if order.StatusID == status.ID {
			return nil
		}

		from := order.StatusID
		err = tx.Model(&Order{}).Where("id = ?", order.ID).Update("status_id", status.ID).Error
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := OrderStatusHistory{OrderID: order.ID, FromStatusID: &from, ToStatusID: status.ID}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	snap, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return snap, changed, nil
}

// GetStatusHistory returns the order's status changes, oldest first
func (s *Service) GetStatusHistory(ctx context.Context, orderID uint) ([]StatusChange, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if count == 0 {
		return nil, apperror.NotFound(EntityOrder, orderID)
	}

	var entries []OrderStatusHistory
	err := db.
		Preload("FromStatus").
		Preload("ToStatus").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve status history: %w", err)
	}

	changes := make([]StatusChange, 0, len(entries))
	for _, entry := range entries {
		change := StatusChange{ChangedAt: entry.CreatedAt}
		if entry.FromStatus != nil {
			change.FromStatus = entry.FromStatus.Name
		}
		if entry.ToStatus != nil {
			change.ToStatus = entry.ToStatus.Name
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// findStatus loads a status by ID; ID 0 selects the initial status
func findStatus(db *gorm.DB, id uint) (*Status, error) {
	var status Status
	var err error
	if id == 0 {
		err = db.Where("name = ?", InitialStatus).First(&status).Error
	} else {
		err = db.First(&status, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if id == 0 {
				return nil, apperror.NotFound(EntityStatus, InitialStatus)
			}
			return nil, apperror.NotFound(EntityStatus, id)
		}
		return nil, fmt.Errorf("failed to retrieve order status: %w", err)
	}
	return &status, nil
}

// Lookup names are stored upper-case, matching the seeded rows
func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func ensureUniqueLookup(db *gorm.DB, model interface{}, entity, name string, excludeID uint) error {
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
