package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/utils"
	"context"
	"errors"
	"log"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotYourAppointment   = errors.New("unauthorized: not your appointment")
	ErrStaffOnlyTransition  = errors.New("unauthorized: staff only")
	ErrDentistRoleRequired  = errors.New("assignee is not a dentist")
	ErrAppointmentFinalized = errors.New("appointment is already completed or cancelled")
)

// Caller is the explicit identity of the requesting user, resolved once at
// the request boundary and passed into every operation.
type Caller struct {
	UID  string
	Role string
}

// IsStaff reports whether the caller holds any staff role.
func (c Caller) IsStaff() bool {
	return models.IsStaffRole(c.Role)
}

// allowedTransitions encodes the appointment state machine:
// pending -> confirmed -> completed, with cancelled reachable from
// pending or confirmed. Completed and cancelled are terminal.
var allowedTransitions = map[string][]string{
	models.AppointmentPending:   {models.AppointmentConfirmed, models.AppointmentCancelled},
	models.AppointmentConfirmed: {models.AppointmentCompleted, models.AppointmentCancelled},
}

// CanTransition reports whether the status change is legal.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type AppointmentService struct {
	repository *repositories.AppointmentRepository
	userRepo   repositories.UserRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository, userRepo repositories.UserRepository) *AppointmentService {
	return &AppointmentService{repository: repository, userRepo: userRepo}
}

func (s *AppointmentService) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *AppointmentService) ListMine(ctx context.Context, caller Caller) ([]models.Appointment, error) {
	return s.repository.ListByPatient(ctx, caller.UID)
}

func (s *AppointmentService) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return s.repository.ListByDate(ctx, date)
}

// TransitionStatus applies a status change on behalf of an authenticated
// caller. Staff may apply any legal transition; a client may only cancel
// their own appointment.
func (s *AppointmentService) TransitionStatus(ctx context.Context, caller Caller, id uint, newStatus string) (*models.Appointment, error) {
	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !caller.IsStaff() {
		if appointment.PatientUID != caller.UID {
			return nil, ErrNotYourAppointment
		}
		if newStatus != models.AppointmentCancelled {
			return nil, ErrStaffOnlyTransition
		}
	}

	if !CanTransition(appointment.Status, newStatus) {
		return nil, ErrInvalidTransition
	}
	if err := s.repository.UpdateStatus(ctx, appointment, newStatus); err != nil {
		return nil, err
	}
	return appointment, nil
}

// ConfirmByLink handles the emailed confirmation link. Authorization is
// possession of the appointment id alone; weaker than the role model
// elsewhere, but that is the product's emailed-link trade-off.
func (s *AppointmentService) ConfirmByLink(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transitionByLink(ctx, id, models.AppointmentConfirmed)
}

// CancelByLink handles the emailed cancellation link.
func (s *AppointmentService) CancelByLink(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transitionByLink(ctx, id, models.AppointmentCancelled)
}

func (s *AppointmentService) transitionByLink(ctx context.Context, id uint, newStatus string) (*models.Appointment, error) {
	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !CanTransition(appointment.Status, newStatus) {
		return nil, ErrInvalidTransition
	}
	if err := s.repository.UpdateStatus(ctx, appointment, newStatus); err != nil {
		return nil, err
	}
	return appointment, nil
}

// AssignDentist sets the dentist on a pending or confirmed appointment.
// The status is left untouched. Any staff role may assign.
func (s *AppointmentService) AssignDentist(ctx context.Context, caller Caller, id uint, dentistUID string) (*models.Appointment, error) {
	if !caller.IsStaff() {
		return nil, ErrStaffOnlyTransition
	}

	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status != models.AppointmentPending && appointment.Status != models.AppointmentConfirmed {
		return nil, ErrAppointmentFinalized
	}

	dentist, err := s.userRepo.GetUserByUID(ctx, dentistUID)
	if err != nil {
		return nil, err
	}
	if dentist == nil || dentist.Role != models.RoleDentist {
		return nil, ErrDentistRoleRequired
	}

	if err := s.repository.AssignDentist(ctx, appointment, dentistUID); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Reschedule moves a pending/confirmed appointment to a new date/time and
// notifies the patient. Staff only.
func (s *AppointmentService) Reschedule(ctx context.Context, caller Caller, id uint, date, timeOfDay string) (*models.Appointment, error) {
	if !caller.IsStaff() {
		return nil, ErrStaffOnlyTransition
	}
	if !IsClinicSlot(timeOfDay) {
		return nil, ErrSlotNotOffered
	}

	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status != models.AppointmentPending && appointment.Status != models.AppointmentConfirmed {
		return nil, ErrAppointmentFinalized
	}

	// The rescheduled slot goes through the same locked checks as a fresh
	// booking, replayed as a move.
	if err := s.repository.Move(ctx, appointment, date, timeOfDay); err != nil {
		return nil, err
	}

	patient, lookupErr := s.userRepo.GetUserByUID(ctx, appointment.PatientUID)
	if lookupErr == nil && patient != nil {
		invite := utils.AppointmentInvite{
			AppointmentID: appointment.ID,
			PatientName:   patient.DisplayName,
			ServiceType:   appointment.ServiceType,
			Date:          date,
			Time:          timeOfDay,
		}
		go func() {
			if err := utils.SendRescheduleEmail(patient.Email, invite); err != nil {
				log.Printf("Failed to send reschedule email: %v", err)
			}
		}()
	}

	return appointment, nil
}
