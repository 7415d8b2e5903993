package handlers

import (
	"PearlDental/models"
	"PearlDental/services"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ClosureHandler struct {
	availability *services.AvailabilityService
}

func NewClosureHandler(availability *services.AvailabilityService) *ClosureHandler {
	return &ClosureHandler{availability: availability}
}

// ListClosures returns closures from today onward
func (h *ClosureHandler) ListClosures(c *gin.Context) {
	from := c.DefaultQuery("from", time.Now().Format("2006-01-02"))
	closures, err := h.availability.ListClosures(c.Request.Context(), from)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, closures)
}

// CreateClosure marks a date as a clinic holiday. Staff only.
func (h *ClosureHandler) CreateClosure(c *gin.Context) {
	var closure models.ClinicClosure
	if err := c.ShouldBindJSON(&closure); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if closure.Reason == "" {
		c.JSON(400, gin.H{"error": "reason is required"})
		return
	}

	if err := h.availability.AddClosure(c.Request.Context(), &closure); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, closure)
}

// DeleteClosure reopens a previously closed date. Staff only.
func (h *ClosureHandler) DeleteClosure(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid closure ID"})
		return
	}

	if err := h.availability.RemoveClosure(c.Request.Context(), uint(id)); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Closure removed"})
}
