package handlers

import (
	"PearlDental/models"
	"PearlDental/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProcedureHandler struct {
	service *services.ProcedureService
}

func NewProcedureHandler(service *services.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{service: service}
}

func parseProcedureID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid procedure ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *ProcedureHandler) CreateProcedure(c *gin.Context) {
	var procedure models.Procedure
	if err := c.ShouldBindJSON(&procedure); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if procedure.Name == "" || procedure.Code == "" {
		c.JSON(400, gin.H{"error": "name and code are required"})
		return
	}
	if procedure.BasePriceCents < 0 {
		c.JSON(400, gin.H{"error": "price must not be negative"})
		return
	}
	procedure.Active = true

	if err := h.service.Create(c.Request.Context(), &procedure); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, procedure)
}

func (h *ProcedureHandler) GetProcedureByID(c *gin.Context) {
	id, ok := parseProcedureID(c)
	if !ok {
		return
	}

	procedure, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || procedure == nil {
		c.JSON(404, gin.H{"error": "Procedure not found"})
		return
	}
	c.JSON(200, procedure)
}

func (h *ProcedureHandler) GetAllProcedures(c *gin.Context) {
	procedures, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, procedures)
}

func (h *ProcedureHandler) UpdateProcedure(c *gin.Context) {
	id, ok := parseProcedureID(c)
	if !ok {
		return
	}

	var procedure models.Procedure
	if err := c.ShouldBindJSON(&procedure); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if procedure.BasePriceCents < 0 {
		c.JSON(400, gin.H{"error": "price must not be negative"})
		return
	}
	procedure.ID = id

	if err := h.service.Update(c.Request.Context(), &procedure); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, procedure)
}

func (h *ProcedureHandler) DeactivateProcedure(c *gin.Context) {
	id, ok := parseProcedureID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Procedure deactivated"})
}
