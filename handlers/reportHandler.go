package handlers

import (
	"PearlDental/middlewares"
	"PearlDental/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetReport builds the activity report for the last N days. Staff only.
func (h *ReportHandler) GetReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		c.JSON(400, gin.H{"error": "days must be between 1 and 90"})
		return
	}

	report, err := h.service.Build(c.Request.Context(), days)
	if err != nil {
		middlewares.HttpError(c, "Failed to build report", 500, err)
		return
	}
	middlewares.RespondJSON(c, report, 200)
}
