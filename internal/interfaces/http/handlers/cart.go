// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/infrastructure/notify"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService  *cart.Service
	orderService *order.Service
	publisher    notify.Publisher
	log          *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config, publisher notify.Publisher, log *logrus.Logger) *CartHandler {
	menu := catalog.NewMenuService(db)
	cartService := cart.NewService(db, menu)

	return &CartHandler{
		cartService:  cartService,
		orderService: order.NewService(db, cfg, menu, cartService),
		publisher:    publisher,
		log:          log,
	}
}

// GetCart handles GET /cart/:user_id
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart retrieved successfully", cartResponse)
}

// GetCartCount handles GET /cart/:user_id/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart count retrieved successfully", gin.H{
		"item_count":     cartResponse.Totals.ItemCount,
		"total_quantity": cartResponse.Totals.TotalQuantity,
	})
}

// AddToCart handles POST /cart/:user_id/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.cartService.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Item added to cart successfully", entry)
}

// UpdateCartItem handles PUT /cart/:user_id/items/:item_id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.cartService.UpdateCartItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if entry == nil {
		respondOK(c, http.StatusOK, "Item removed from cart", nil)
		return
	}
	respondOK(c, http.StatusOK, "Cart item updated successfully", entry)
}

// RemoveFromCart handles DELETE /cart/:user_id/items/:item_id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}

	removed, err := h.cartService.RemoveFromCart(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item is not in the cart"})
		return
	}

	respondOK(c, http.StatusOK, "Item removed from cart", nil)
}

// ClearCart handles DELETE /cart/:user_id
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart cleared successfully", nil)
}

// Checkout handles POST /cart/:user_id/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	var req order.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	publishEvent(c, h.publisher, h.log, notify.EventOrderCreated, snap)
	respondOK(c, http.StatusCreated, "Order placed successfully", snap)
}
