// internal/interfaces/http/handlers/lookup.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"gorm.io/gorm"
)

// LookupHandler handles order statuses and delivery methods
type LookupHandler struct {
	statusService   *order.StatusService
	deliveryService *order.DeliveryService
	log             *logrus.Logger
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(db *gorm.DB, log *logrus.Logger) *LookupHandler {
	return &LookupHandler{
		statusService:   order.NewStatusService(db),
		deliveryService: order.NewDeliveryService(db),
		log:             log,
	}
}

// GetStatuses handles GET /order-statuses
func (h *LookupHandler) GetStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order statuses retrieved successfully", statuses)
}

// GetStatus handles GET /order-statuses/:id
func (h *LookupHandler) GetStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	status, err := h.statusService.GetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status retrieved successfully", status)
}

// CreateStatus handles POST /order-statuses (admin)
func (h *LookupHandler) CreateStatus(c *gin.Context) {
	var req order.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Order status created successfully", status)
}

// RenameStatus handles PUT /order-statuses/:id (admin)
func (h *LookupHandler) RenameStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req order.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.statusService.RenameStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status updated successfully", status)
}

// DeleteStatus handles DELETE /order-statuses/:id (admin)
func (h *LookupHandler) DeleteStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status deleted successfully", nil)
}

// GetDeliveryMethods handles GET /delivery-methods
func (h *LookupHandler) GetDeliveryMethods(c *gin.Context) {
	methods, err := h.deliveryService.ListDeliveryMethods(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Delivery methods retrieved successfully", methods)
}

// GetDeliveryMethod handles GET /delivery-methods/:id
func (h *LookupHandler) GetDeliveryMethod(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	method, err := h.deliveryService.GetDeliveryMethod(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Delivery method retrieved successfully", method)
}

// CreateDeliveryMethod handles POST /delivery-methods (admin)
func (h *LookupHandler) CreateDeliveryMethod(c *gin.Context) {
	var req order.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	method, err := h.deliveryService.CreateDeliveryMethod(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Delivery method created successfully", method)
}

// DeleteDeliveryMethod handles DELETE /delivery-methods/:id (admin)
func (h *LookupHandler) DeleteDeliveryMethod(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.deliveryService.DeleteDeliveryMethod(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Delivery method deleted successfully", nil)
}
