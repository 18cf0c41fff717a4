// internal/interfaces/http/handlers/user.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/user"
	"gorm.io/gorm"
)

// UserHandler handles users and roles
type UserHandler struct {
	userService *user.Service
	roleService *user.RoleService
	log         *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: user.NewService(db),
		roleService: user.NewRoleService(db),
		log:         log,
	}
}

// CreateUser handles POST /users (admin)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "User created successfully", u)
}

// GetUsers handles GET /users (admin)
func (h *UserHandler) GetUsers(c *gin.Context) {
	roleID, ok := optionalUint(c, "role_id")
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), roleID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Users retrieved successfully", users)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userParam(c, "id")
	if !ok {
		return
	}

	u, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "User retrieved successfully", u)
}

// ChangeRole handles PUT /users/:id/role (admin)
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var req user.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.userService.ChangeRole(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id": u.ID,
		"role":    u.RoleName(),
	}).Info("User role changed")
	respondOK(c, http.StatusOK, "User role updated successfully", u)
}

// GetRoles handles GET /roles
func (h *UserHandler) GetRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Roles retrieved successfully", roles)
}

// GetRole handles GET /roles/:id
func (h *UserHandler) GetRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Role retrieved successfully", role)
}

// GetRoleUsers handles GET /roles/:id/users, the ids the bot broadcasts to
func (h *UserHandler) GetRoleUsers(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ids, err := h.roleService.ListUserIDs(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Role users retrieved successfully", ids)
}

// CreateRole handles POST /roles (admin)
func (h *UserHandler) CreateRole(c *gin.Context) {
	var req user.RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Role created successfully", role)
}

// RenameRole handles PUT /roles/:id (admin)
func (h *UserHandler) RenameRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req user.RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.RenameRole(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Role updated successfully", role)
}

// DeleteRole handles DELETE /roles/:id (admin)
func (h *UserHandler) DeleteRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Role deleted successfully", nil)
}
