// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// MenuHandler handles menu categories and menu items
type MenuHandler struct {
	menuService     *catalog.MenuService
	categoryService *catalog.CategoryService
	log             *logrus.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(db *gorm.DB, log *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		menuService:     catalog.NewMenuService(db),
		categoryService: catalog.NewCategoryService(db),
		log:             log,
	}
}

// AvailabilityRequest toggles whether an item can be ordered
type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// GetCategories handles GET /menu-categories
func (h *MenuHandler) GetCategories(c *gin.Context) {
	withCounts, _ := strconv.ParseBool(c.Query("with_counts"))

	if withCounts {
		categories, err := h.categoryService.ListCategoriesWithItemCount(c.Request.Context())
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetCategory handles GET /menu-categories/:id
func (h *MenuHandler) GetCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Category retrieved successfully", category)
}

// CreateCategory handles POST /menu-categories (admin)
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req catalog.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Category created successfully", category)
}

// RenameCategory handles PUT /menu-categories/:id (admin)
func (h *MenuHandler) RenameCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req catalog.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.RenameCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /menu-categories/:id (admin)
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Category deleted successfully", nil)
}

// GetItems handles GET /menu-items
func (h *MenuHandler) GetItems(c *gin.Context) {
	categoryID, ok := optionalUint(c, "category_id")
	if !ok {
		return
	}
	available, ok := optionalBool(c, "is_available")
	if !ok {
		return
	}

	items, err := h.menuService.ListItems(c.Request.Context(), catalog.MenuItemFilter{
		CategoryID:  categoryID,
		IsAvailable: available,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Menu items retrieved successfully", items)
}

// GetItem handles GET /menu-items/:id
func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Menu item retrieved successfully", item)
}

// CreateItem handles POST /menu-items (admin)
func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req catalog.MenuItemCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Menu item created successfully", item)
}

// UpdateItem handles PUT /menu-items/:id (admin)
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req catalog.MenuItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.menuService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Menu item updated successfully", item)
}

// SetAvailability handles PUT /menu-items/:id/availability (admin)
func (h *MenuHandler) SetAvailability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.menuService.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Menu item availability updated", item)
}

// DeleteItem handles DELETE /menu-items/:id (admin)
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Menu item deleted successfully", nil)
}
