// internal/interfaces/http/handlers/order.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/infrastructure/notify"
	"github.com/your-org/cafe-backend/internal/interfaces/http/middleware"
	"github.com/your-org/cafe-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// ReceiptRenderer turns an order snapshot into a PDF
type ReceiptRenderer interface {
	GenerateReceipt(snap *order.OrderSnapshot) (*bytes.Buffer, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	receipts     ReceiptRenderer
	publisher    notify.Publisher
	log          *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config, publisher notify.Publisher, log *logrus.Logger) *OrderHandler {
	menu := catalog.NewMenuService(db)
	cartService := cart.NewService(db, menu)

	return &OrderHandler{
		orderService: order.NewService(db, cfg, menu, cartService),
		receipts:     pdf.NewService(cfg),
		publisher:    publisher,
		log:          log,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	// Clients always order for themselves and start in the initial status
	if !middleware.IsStaffFromContext(c) {
		callerID, _ := middleware.GetUserIDFromContext(c)
		if req.UserID == 0 {
			req.UserID = callerID
		}
		if req.UserID != callerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		req.StatusID = 0
	}

	snap, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	publishEvent(c, h.publisher, h.log, notify.EventOrderCreated, snap)
	respondOK(c, http.StatusCreated, "Order created successfully", snap)
}

// GetOrders handles GET /orders (staff)
func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}

	statusID, ok := optionalUint(c, "status_id")
	if !ok {
		return
	}

	filter := order.OrderFilter{StatusID: statusID, Page: page, Limit: limit}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		filter.UserID = &userID
	}

	list, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", list)
}

// GetUserOrders handles GET /orders/user/:user_id
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := userParam(c, "user_id")
	if !ok {
		return
	}

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	snap, ok := h.loadOwnOrder(c)
	if !ok {
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", snap)
}

// GetOrderUser handles GET /orders/:id/user
func (h *OrderHandler) GetOrderUser(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	userID, err := h.orderService.GetOrderUserID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !middleware.CanActFor(c, userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("order %d not found", id)})
		return
	}

	respondOK(c, http.StatusOK, "Order owner retrieved successfully", gin.H{"user_id": userID})
}

// GetOrderHistory handles GET /orders/:id/history
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	snap, ok := h.loadOwnOrder(c)
	if !ok {
		return
	}

	history, err := h.orderService.GetStatusHistory(c.Request.Context(), snap.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order history retrieved successfully", history)
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	snap, ok := h.loadOwnOrder(c)
	if !ok {
		return
	}

	receipt, err := h.receipts.GenerateReceipt(snap)
	if err != nil {
		respondError(c, h.log, fmt.Errorf("failed to generate receipt for order %d: %w", snap.ID, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, snap.ID))
	c.Data(http.StatusOK, "application/pdf", receipt.Bytes())
}

// UpdateOrderStatus handles PUT /orders/:id/status (staff)
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req order.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, changed, err := h.orderService.TransitionStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if changed {
		publishEvent(c, h.publisher, h.log, notify.EventOrderStatusChanged, snap)
	}
	respondOK(c, http.StatusOK, "Order status updated successfully", snap)
}

// DeleteOrder handles DELETE /orders/:id (admin)
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order deleted successfully", nil)
}

// loadOwnOrder fetches the :id order, answering 404 for orders the caller may not see
func (h *OrderHandler) loadOwnOrder(c *gin.Context) (*order.OrderSnapshot, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	snap, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}

	if !middleware.CanActFor(c, snap.UserID) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("order %d not found", id)})
		return nil, false
	}

	return snap, true
}

// publishEvent notifies the bot; a failed publish never fails the request
func publishEvent(c *gin.Context, publisher notify.Publisher, log *logrus.Logger, eventType string, snap *order.OrderSnapshot) {
	if err := publisher.Publish(c.Request.Context(), notify.NewEvent(eventType, snap)); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"event":    eventType,
			"order_id": snap.ID,
		}).Warn("Failed to publish order event")
	}
}
