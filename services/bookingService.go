package services

import (
	"PearlDental/config"
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/utils"
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrSlotNotOffered rejects times outside the clinic's fixed slot set.
var ErrSlotNotOffered = errors.New("time is outside clinic hours")

type BookingService struct {
	appointmentRepo *repositories.AppointmentRepository
	availability    *AvailabilityService
	userRepo        repositories.UserRepository
	config          *config.AppConfig
}

func NewBookingService(
	appointmentRepo *repositories.AppointmentRepository,
	availability *AvailabilityService,
	userRepo repositories.UserRepository,
	config *config.AppConfig,
) *BookingService {
	return &BookingService{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		userRepo:        userRepo,
		config:          config,
	}
}

// Book validates a patient-submitted request against the clinic's rules and
// current availability, optionally updates the patient's display name and
// phone, and creates a pending appointment. The repository re-checks the
// slot under a lock, so the pre-check here is a fast path, not the guard.
func (s *BookingService) Book(ctx context.Context, patientUID string, req utils.BookingRequest) (*models.Appointment, error) {
	if err := utils.ValidateBookingRequest(req); err != nil {
		return nil, err
	}
	if !IsClinicSlot(req.Time) {
		return nil, ErrSlotNotOffered
	}

	availability, err := s.availability.GetAvailability(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if err := checkSlotOpen(availability, req.Time); err != nil {
		return nil, err
	}

	// Booking doubles as a light profile update.
	if req.DisplayName != "" || req.Phone != "" {
		if err := s.userRepo.UpdateUserProfile(ctx, patientUID, req.DisplayName, req.Phone); err != nil {
			log.Printf("Failed to update profile during booking: %v", err)
		}
	}

	appointment := &models.Appointment{
		PatientUID:  patientUID,
		Date:        req.Date,
		Time:        req.Time,
		ServiceType: req.ServiceType,
		Status:      models.AppointmentPending,
	}
	if err := s.appointmentRepo.CreateBooking(ctx, appointment); err != nil {
		return nil, err
	}

	s.sendBookingEmail(ctx, patientUID, appointment)
	return appointment, nil
}

// checkSlotOpen rejects a requested slot the day's availability rules out.
// Runs before any create is attempted; the repository repeats the check
// under the slot lock.
func checkSlotOpen(availability *Availability, slot string) error {
	if availability.IsHoliday {
		return repositories.ErrClinicClosed
	}
	for _, taken := range availability.TakenSlots {
		if taken == slot {
			return repositories.ErrSlotTaken
		}
	}
	return nil
}

// sendBookingEmail is fire-and-forget: a mail failure never rolls back the
// booking.
func (s *BookingService) sendBookingEmail(ctx context.Context, patientUID string, appointment *models.Appointment) {
	patient, err := s.userRepo.GetUserByUID(ctx, patientUID)
	if err != nil || patient == nil {
		log.Printf("Skipping booking email, patient lookup failed: %v", err)
		return
	}
	invite := utils.AppointmentInvite{
		AppointmentID: appointment.ID,
		PatientName:   patient.DisplayName,
		ServiceType:   appointment.ServiceType,
		Date:          appointment.Date,
		Time:          appointment.Time,
		ConfirmURL:    fmt.Sprintf("%s/appointments/%d/confirm", s.config.GetConfirmBase(), appointment.ID),
	}
	go func() {
		if err := utils.SendBookingEmail(patient.Email, invite); err != nil {
			log.Printf("Failed to send booking email: %v", err)
		}
	}()
}
