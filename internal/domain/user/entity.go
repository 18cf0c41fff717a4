// internal/domain/user/entity.go
package user

import (
	"time"
)

// Entity names used in typed errors
const (
	EntityUser = "user"
	EntityRole = "role"
)

// Seeded role names
const (
	RoleAdmin   = "ADMIN"
	RoleBarista = "BARISTA"
	RoleClient  = "CLIENT"

	DefaultRole = RoleClient
)

// User is a café customer or staff member, identified by their Telegram ID
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	RoleID    uint      `gorm:"not null;index" json:"role_id"`
	Username  *string   `gorm:"uniqueIndex;size:64" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"role,omitempty"`
}

// Role is a row of the role lookup table
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Role
func (Role) TableName() string {
	return "roles"
}

// RoleName returns the loaded role name, or "" when Role was not preloaded
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsStaff reports whether the user works at the café
func (u *User) IsStaff() bool {
	name := u.RoleName()
	return name == RoleAdmin || name == RoleBarista
}
