package handlers

import (
	"PearlDental/repositories"
	"PearlDental/services"
	"PearlDental/utils"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	bookingService     *services.BookingService
	appointmentService *services.AppointmentService
	availability       *services.AvailabilityService
}

func NewAppointmentHandler(
	bookingService *services.BookingService,
	appointmentService *services.AppointmentService,
	availability *services.AvailabilityService,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingService:     bookingService,
		appointmentService: appointmentService,
		availability:       availability,
	}
}

func parseAppointmentID(c *gin.Context) (uint, bool) {
	idStr := c.Param("appointment_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid appointment ID"})
		return 0, false
	}
	return uint(id), true
}

// GetAvailability returns the taken slots and holiday state for one date
func (h *AppointmentHandler) GetAvailability(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	availability, err := h.availability.GetAvailability(c.Request.Context(), date)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, availability)
}

// GetAvailabilityRange returns availability for a run of consecutive days
func (h *AppointmentHandler) GetAvailabilityRange(c *gin.Context) {
	from := c.DefaultQuery("from", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", from); err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil || days < 1 || days > 60 {
		c.JSON(400, gin.H{"error": "days must be between 1 and 60"})
		return
	}

	availabilities, err := h.availability.GetAvailabilityRange(c.Request.Context(), from, days)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, availabilities)
}

// Book creates a new appointment for the authenticated patient
func (h *AppointmentHandler) Book(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	var req utils.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.bookingService.Book(c.Request.Context(), caller.UID, req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlotTaken):
			c.JSON(409, gin.H{"error": err.Error()})
		case errors.Is(err, repositories.ErrClinicClosed), errors.Is(err, services.ErrSlotNotOffered):
			c.JSON(422, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(201, appointment)
}

// ListMine returns the authenticated patient's own appointments
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	appointments, err := h.appointmentService.ListMine(c.Request.Context(), caller)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, appointments)
}

// GetByID returns a single appointment. Clients may only read their own.
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), id)
	if err != nil || appointment == nil {
		c.JSON(404, gin.H{"error": "Appointment not found"})
		return
	}
	if !caller.IsStaff() && appointment.PatientUID != caller.UID {
		c.JSON(403, gin.H{"error": "unauthorized: not your appointment"})
		return
	}
	c.JSON(200, appointment)
}

// ListSchedule returns all non-cancelled appointments for a date. Staff only.
func (h *AppointmentHandler) ListSchedule(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	appointments, err := h.appointmentService.ListByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, appointments)
}

// UpdateStatus transitions an appointment between lifecycle states
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
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
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointmentService.TransitionStatus(c.Request.Context(), caller, id, body.Status)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// ConfirmByLink confirms a pending appointment via the emailed link
func (h *AppointmentHandler) ConfirmByLink(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.ConfirmByLink(c.Request.Context(), id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// CancelByLink cancels an appointment via the emailed link
func (h *AppointmentHandler) CancelByLink(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.CancelByLink(c.Request.Context(), id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// AssignDentist assigns a dentist to an appointment. Staff only.
func (h *AppointmentHandler) AssignDentist(c *gin.Context) {
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
		DentistUID string `json:"dentist_uid"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.DentistUID == "" {
		c.JSON(400, gin.H{"error": "dentist_uid is required"})
		return
	}

	appointment, err := h.appointmentService.AssignDentist(c.Request.Context(), caller, id, body.DentistUID)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Reschedule moves an appointment to a new date and time. Staff only.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
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
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointmentService.Reschedule(c.Request.Context(), caller, id, body.Date, body.Time)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlotTaken):
			c.JSON(409, gin.H{"error": err.Error()})
		case errors.Is(err, repositories.ErrClinicClosed):
			c.JSON(422, gin.H{"error": err.Error()})
		default:
			respondAppointmentError(c, err)
		}
		return
	}
	c.JSON(200, appointment)
}

func respondAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAppointmentFinalized),
		errors.Is(err, services.ErrDentistRoleRequired),
		errors.Is(err, services.ErrSlotNotOffered):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotYourAppointment),
		errors.Is(err, services.ErrStaffOnlyTransition):
		c.JSON(403, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}
