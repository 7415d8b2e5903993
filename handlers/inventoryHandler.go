package handlers

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/services"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *services.InventoryService
}

func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func parseItemID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid item ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if item.Name == "" {
		c.JSON(400, gin.H{"error": "name is required"})
		return
	}
	item.Active = true

	if err := h.service.Create(c.Request.Context(), &item); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, item)
}

func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || item == nil {
		c.JSON(404, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(200, item)
}

func (h *InventoryHandler) GetAllItems(c *gin.Context) {
	items, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, items)
}

// GetConsumables lists active non-instrument items, the set a dentist can
// record against a treatment
func (h *InventoryHandler) GetConsumables(c *gin.Context) {
	items, err := h.service.ListConsumables(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, items)
}

func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, items)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	item.ID = id

	if err := h.service.Update(c.Request.Context(), &item); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, item)
}

// AdjustStock applies a signed stock delta, used for restocking and manual
// corrections. Consumption during treatment goes through the treatment flow.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	var body struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Delta == 0 {
		c.JSON(400, gin.H{"error": "delta must be a non-zero integer"})
		return
	}

	if err := h.service.AdjustStock(c.Request.Context(), id, body.Delta); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			c.JSON(422, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.Status(200)
}

func (h *InventoryHandler) DeactivateItem(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Item deactivated"})
}
