// internal/domain/user/role_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// RoleService handles role business logic
type RoleService struct {
	db *gorm.DB
}

// NewRoleService creates a new role service
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleRequest carries a role name for creation and rename
type RoleRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// ListRoles retrieves all roles
func (s *RoleService) ListRoles(ctx context.Context) ([]Role, error) {
	roles := []Role{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve roles: %w", err)
	}
	return roles, nil
}

// GetRole retrieves a role by ID
func (s *RoleService) GetRole(ctx context.Context, id uint) (*Role, error) {
	if id == 0 {
		return nil, apperror.NotFound(EntityRole, id)
	}
	return findRole(s.db.WithContext(ctx), id)
}

// CreateRole adds a role with a unique name
func (s *RoleService) CreateRole(ctx context.Context, req *RoleRequest) (*Role, error) {
	req.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueRole(db, req.Name, 0); err != nil {
		return nil, err
	}

	role := &Role{Name: req.Name}
	if err := db.Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", apperror.FromDB(err, EntityRole))
	}
	return role, nil
}

// RenameRole changes a role name, keeping names unique
func (s *RoleService) RenameRole(ctx context.Context, id uint, req *RoleRequest) (*Role, error) {
	req.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueRole(db, req.Name, id); err != nil {
		return nil, err
	}

	if err := db.Model(role).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename role: %w", apperror.FromDB(err, EntityRole))
	}
	role.Name = req.Name
	return role, nil
}

// DeleteRole removes a role no user holds
func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	var holders int64
	if err := db.Model(&User{}).Where("role_id = ?", id).Count(&holders).Error; err != nil {
		return fmt.Errorf("failed to count role users: %w", err)
	}
	if holders > 0 {
		return apperror.Conflict(EntityRole, "%q is assigned to %d user(s)", role.Name, holders)
	}

	if err := db.Delete(role).Error; err != nil {
		return fmt.Errorf("failed to delete role: %w", apperror.FromDB(err, EntityRole))
	}
	return nil
}

// ListUserIDs returns the IDs of every user holding the role
func (s *RoleService) ListUserIDs(ctx context.Context, roleID uint) ([]int64, error) {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return nil, err
	}

	ids := []int64{}
	err := s.db.WithContext(ctx).Model(&User{}).Where("role_id = ?", roleID).Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve role users: %w", err)
	}
	return ids, nil
}

// findRole loads a role by ID; ID 0 selects the default role
func findRole(db *gorm.DB, id uint) (*Role, error) {
	var role Role
	var err error
	if id == 0 {
		err = db.Where("name = ?", DefaultRole).First(&role).Error
	} else {
		err = db.First(&role, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if id == 0 {
				return nil, apperror.NotFound(EntityRole, DefaultRole)
			}
			return nil, apperror.NotFound(EntityRole, id)
		}
		return nil, fmt.Errorf("failed to retrieve role: %w", err)
	}
	return &role, nil
}

func ensureUniqueRole(db *gorm.DB, name string, excludeID uint) error {
	query := db.Model(&Role{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check role name: %w", err)
	}
	if count > 0 {
		return apperror.DuplicateName(EntityRole, name)
	}
	return nil
}
