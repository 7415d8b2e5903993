package handlers

import (
	"PearlDental/repositories"
	"PearlDental/services"
	"errors"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service *services.BillingService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// GetRecord returns the ledger for an appointment. Falls back to a virtual
// record synthesized from the treatment when nothing persisted exists yet.
func (h *BillingHandler) GetRecord(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondBillingError(c, err)
		return
	}
	c.JSON(200, gin.H{
		"record":          record,
		"paid_cents":      record.PaidCents(),
		"remaining_cents": record.RemainingCents(),
	})
}

// RecordPayment appends a payment transaction to the ledger. Staff only.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	var body struct {
		AmountCents int64  `json:"amount_cents"`
		Method      string `json:"method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	record, err := h.service.RecordPayment(c.Request.Context(), id, body.AmountCents, body.Method, caller.UID)
	if err != nil {
		respondBillingError(c, err)
		return
	}
	c.JSON(200, record)
}

// CreateInstallmentPlan splits the outstanding balance, or a chosen subset
// of items, into monthly installments. Staff only.
func (h *BillingHandler) CreateInstallmentPlan(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	var body struct {
		Months  int      `json:"months"`
		ItemIDs []string `json:"item_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	record, err := h.service.CreateInstallmentPlan(c.Request.Context(), id, body.Months, body.ItemIDs)
	if err != nil {
		respondBillingError(c, err)
		return
	}
	c.JSON(200, record)
}

// List returns billing records, optionally filtered by status. Staff only.
func (h *BillingHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	records, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}

// ListMine returns the authenticated patient's own billing records
func (h *BillingHandler) ListMine(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	records, err := h.service.ListByPatient(c.Request.Context(), caller.UID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}

// ListByPatient returns one patient's billing records. Staff only.
func (h *BillingHandler) ListByPatient(c *gin.Context) {
	patientUID := c.Param("patient_uid")
	if patientUID == "" {
		c.JSON(400, gin.H{"error": "Invalid patient UID"})
		return
	}

	records, err := h.service.ListByPatient(c.Request.Context(), patientUID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}

func respondBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBillingNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidMonths),
		errors.Is(err, services.ErrNoBalanceToSplit),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrInvalidAmount):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrBillingExists):
		c.JSON(409, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}
