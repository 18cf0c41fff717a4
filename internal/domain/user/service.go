// internal/domain/user/service.go
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

// Service handles user business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new user service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateUserRequest represents user registration data. A zero RoleID assigns the default role.
type CreateUserRequest struct {
	ID       int64   `json:"id" validate:"required,gt=0"`
	RoleID   uint    `json:"role_id"`
	Username *string `json:"username" validate:"omitempty,min=1,max=64"`
}

// ChangeRoleRequest represents a role change
type ChangeRoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// CreateUser registers a user
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.Username != nil {
		trimmed := strings.TrimPrefix(strings.TrimSpace(*req.Username), "@")
		req.Username = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	role, err := findRole(db, req.RoleID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&User{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict(EntityUser, "user %d already exists", req.ID)
	}

	if req.Username != nil {
		if err := db.Model(&User{}).Where("username = ?", *req.Username).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			return nil, apperror.Conflict(EntityUser, "username %q is already taken", *req.Username)
		}
	}

	user := &User{ID: req.ID, RoleID: role.ID, Username: req.Username}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", apperror.FromDB(err, EntityUser))
	}

	user.Role = role
	return user, nil
}

// GetUser retrieves a user with their role
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(EntityUser, id)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all users, optionally only those holding roleID
func (s *Service) ListUsers(ctx context.Context, roleID *uint) ([]User, error) {
	query := s.db.WithContext(ctx).Preload("Role").Order("created_at ASC, id ASC")
	if roleID != nil {
		query = query.Where("role_id = ?", *roleID)
	}

	users := []User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// ChangeRole assigns another role to the user
func (s *Service) ChangeRole(ctx context.Context, id int64, req *ChangeRoleRequest) (*User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	role, err := findRole(db, req.RoleID)
	if err != nil {
		return nil, err
	}

	result := db.Model(&User{}).Where("id = ?", id).Update("role_id", role.ID)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to change user role: %w", apperror.FromDB(result.Error, EntityUser))
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound(EntityUser, id)
	}

	return s.GetUser(ctx, id)
}
