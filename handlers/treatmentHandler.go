package handlers

import (
	"PearlDental/models"
	"PearlDental/services"
	"errors"

	"github.com/gin-gonic/gin"
)

type TreatmentHandler struct {
	treatmentService *services.TreatmentService
	historyService   *services.HistoryService
}

func NewTreatmentHandler(treatmentService *services.TreatmentService, historyService *services.HistoryService) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentService: treatmentService,
		historyService:   historyService,
	}
}

// Complete records the treatment performed during an appointment, marks it
// completed and opens the billing ledger. Dentist only.
func (h *TreatmentHandler) Complete(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	var record models.TreatmentRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.treatmentService.Complete(c.Request.Context(), caller, id, record)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDentistOnly):
			c.JSON(403, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAppointmentNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidTransition),
			errors.Is(err, services.ErrAppointmentFinalized):
			c.JSON(422, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(200, appointment)
}

// GetHistory returns the grouped treatment history, latest dental chart and
// attachments for a patient. Staff only.
func (h *TreatmentHandler) GetHistory(c *gin.Context) {
	patientUID := c.Param("patient_uid")
	if patientUID == "" {
		c.JSON(400, gin.H{"error": "Invalid patient UID"})
		return
	}

	history, err := h.historyService.GetPatientHistory(c.Request.Context(), patientUID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, history)
}

// GetMyHistory returns the authenticated patient's own treatment history
func (h *TreatmentHandler) GetMyHistory(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	history, err := h.historyService.GetPatientHistory(c.Request.Context(), caller.UID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, history)
}
