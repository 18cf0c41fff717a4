// internal/interfaces/http/handlers/report.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// ReportHandler serves staff sales reports
type ReportHandler struct {
	analyticsService *analytics.Service
	log              *logrus.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(db *gorm.DB, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		analyticsService: analytics.NewService(db),
		log:              log,
	}
}

// GetSalesReport handles GET /reports/sales?days=
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
		return
	}

	report, err := h.analyticsService.GetSalesReport(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Sales report generated successfully", report)
}
