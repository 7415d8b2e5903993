package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/utils"
	"context"
	"errors"
	"log"
	"time"
)

var ErrDentistOnly = errors.New("unauthorized: dentist only")

type TreatmentService struct {
	appointmentRepo *repositories.AppointmentRepository
	inventoryRepo   *repositories.InventoryRepository
	billing         *BillingService
}

func NewTreatmentService(
	appointmentRepo *repositories.AppointmentRepository,
	inventoryRepo *repositories.InventoryRepository,
	billing *BillingService,
) *TreatmentService {
	return &TreatmentService{
		appointmentRepo: appointmentRepo,
		inventoryRepo:   inventoryRepo,
		billing:         billing,
	}
}

// Complete records the treatment performed during an appointment: persists
// the record, computes the total from procedure prices, consumes inventory,
// marks the appointment completed, opens the billing ledger and emails the
// receipt. Only a dentist may complete; the completing dentist does not have
// to be the assigned one.
func (s *TreatmentService) Complete(ctx context.Context, caller Caller, appointmentID uint, record models.TreatmentRecord) (*models.Appointment, error) {
	if caller.Role != models.RoleDentist {
		return nil, ErrDentistOnly
	}

	if err := utils.ValidateTreatmentPayload(record); err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	var totalCents int64
	for _, procedure := range record.Procedures {
		totalCents += procedure.PriceCents
	}
	record.TotalCents = totalCents
	record.CompletedAt = time.Now()

	if err := s.appointmentRepo.SetTreatment(ctx, appointment, record); err != nil {
		return nil, err
	}

	if len(record.Consumed) > 0 {
		if err := s.inventoryRepo.Consume(ctx, record.Consumed); err != nil {
			log.Printf("Failed to consume inventory for appointment %d: %v", appointmentID, err)
		}
	}

	if totalCents > 0 {
		items := make([]models.BillingItem, 0, len(record.Procedures))
		for _, procedure := range record.Procedures {
			items = append(items, models.BillingItem{
				ID:         procedure.ID,
				Name:       procedure.Name,
				PriceCents: procedure.PriceCents,
				Status:     models.ItemUnpaid,
			})
		}
		if _, err := s.billing.CreateFromTreatment(ctx, appointmentID, appointment.PatientUID, totalCents, items); err != nil {
			// A pre-existing ledger is not fatal for the treatment write;
			// anything else is logged and surfaced.
			if !errors.Is(err, repositories.ErrBillingExists) {
				return nil, err
			}
			log.Printf("Billing record already exists for appointment %d", appointmentID)
		} else {
			s.billing.SendReceipt(ctx, appointment.PatientUID, totalCents)
		}
	}

	return appointment, nil
}
