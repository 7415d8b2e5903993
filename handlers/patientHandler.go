package handlers

import (
	"PearlDental/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService     *services.PatientService
	userService        services.UserService
	appointmentService *services.AppointmentService
	billingService     *services.BillingService
}

func NewPatientHandler(
	patientService *services.PatientService,
	userService services.UserService,
	appointmentService *services.AppointmentService,
	billingService *services.BillingService,
) *PatientHandler {
	return &PatientHandler{
		patientService:     patientService,
		userService:        userService,
		appointmentService: appointmentService,
		billingService:     billingService,
	}
}

// GetMyRecord returns the authenticated patient's record, assigning a
// patient number on first access if registration never did.
func (h *PatientHandler) GetMyRecord(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.patientService.EnsurePatientNumber(ctx, caller.UID); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	record, err := h.patientService.GetRecord(ctx, caller.UID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, record)
}

// GetPatient returns a patient's profile, record, appointments and billing
// in one response, the front desk's patient detail view. Staff only.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	patientUID := c.Param("patient_uid")
	if patientUID == "" {
		c.JSON(400, gin.H{"error": "Invalid patient UID"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetUserByUID(ctx, patientUID)
	if err != nil || user == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}

	record, err := h.patientService.GetRecord(ctx, patientUID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	appointments, err := h.appointmentService.ListMine(ctx, services.Caller{UID: patientUID})
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	billings, err := h.billingService.ListByPatient(ctx, patientUID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"user":         user,
		"record":       record,
		"appointments": appointments,
		"billings":     billings,
	})
}
