package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/utils"
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Domain-rule errors, surfaced verbatim to the caller.
var (
	ErrInvalidMonths    = errors.New("invalid months: must be 1-36")
	ErrNoBalanceToSplit = errors.New("no balance to split")
	ErrAlreadyPaid      = errors.New("already fully paid")
	ErrInvalidAmount    = errors.New("invalid payment amount")
	ErrBillingNotFound  = errors.New("billing record not found")
)

const (
	minPlanMonths = 1
	maxPlanMonths = 36
)

// excludedFromOutstanding are item statuses that never count toward an
// outstanding balance.
func excludedFromOutstanding(status string) bool {
	return status == models.ItemPaid || status == models.ItemVoid || status == models.ItemWaived
}

// EligibleItems selects the billing items a new installment plan covers:
// the explicit subset when given, otherwise every item, re-filtered either
// way to drop paid/void/waived items.
func EligibleItems(items []models.BillingItem, itemIDs []string) []models.BillingItem {
	inSubset := func(id string) bool {
		if len(itemIDs) == 0 {
			return true
		}
		for _, want := range itemIDs {
			if want == id {
				return true
			}
		}
		return false
	}

	var eligible []models.BillingItem
	for _, item := range items {
		if excludedFromOutstanding(item.Status) {
			continue
		}
		if inSubset(item.ID) {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

// BuildInstallments splits totalCents over months. All installments but the
// last get the truncated per-month amount; the last absorbs the rounding
// remainder so the sum equals the plan total exactly. Due dates start one
// month out, never today.
func BuildInstallments(totalCents int64, months int, now time.Time) ([]models.Installment, error) {
	if months < minPlanMonths || months > maxPlanMonths {
		return nil, ErrInvalidMonths
	}
	if totalCents <= 0 {
		return nil, ErrNoBalanceToSplit
	}

	perMonth := totalCents / int64(months)
	installments := make([]models.Installment, 0, months)
	for i := 1; i <= months; i++ {
		amount := perMonth
		if i == months {
			amount = totalCents - perMonth*int64(months-1)
		}
		installments = append(installments, models.Installment{
			ID:          uuid.New().String(),
			DueDate:     now.AddDate(0, i, 0),
			AmountCents: amount,
			Status:      models.InstallmentPending,
		})
	}
	return installments, nil
}

// statusForRemaining maps a derived balance to the record status.
func statusForRemaining(totalCents, remainingCents int64) string {
	switch {
	case remainingCents == 0:
		return models.BillingPaid
	case remainingCents == totalCents:
		return models.BillingUnpaid
	default:
		return models.BillingPartial
	}
}

// SynthesizeVirtualRecord builds a read-only billing view from a completed
// appointment that has no persisted ledger yet. Callers must never persist
// it; IsVirtual marks it.
func SynthesizeVirtualRecord(appointment *models.Appointment) *models.BillingRecord {
	treatment := appointment.TreatmentData()
	if treatment == nil || treatment.TotalCents <= 0 {
		return nil
	}

	status := appointment.PaymentStatus
	if status == "" {
		status = models.BillingUnpaid
	}

	items := make([]models.BillingItem, 0, len(treatment.Procedures))
	for _, procedure := range treatment.Procedures {
		items = append(items, models.BillingItem{
			ID:         procedure.ID,
			Name:       procedure.Name,
			PriceCents: procedure.PriceCents,
			Status:     models.ItemUnpaid,
		})
	}

	return &models.BillingRecord{
		ID:         appointment.ID,
		PatientUID: appointment.PatientUID,
		TotalCents: treatment.TotalCents,
		Status:     status,
		Items:      items,
		Plan:       datatypes.NewJSONType(models.PaymentPlan{Type: models.PlanFull}),
		IsVirtual:  true,
	}
}

type BillingService struct {
	repository      *repositories.BillingRepository
	appointmentRepo *repositories.AppointmentRepository
	userRepo        repositories.UserRepository
}

func NewBillingService(
	repository *repositories.BillingRepository,
	appointmentRepo *repositories.AppointmentRepository,
	userRepo repositories.UserRepository,
) *BillingService {
	return &BillingService{
		repository:      repository,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

// CreateFromTreatment opens the ledger for a completed treatment. A zero
// total opens it already paid. Fails with ErrBillingExists on a duplicate.
func (s *BillingService) CreateFromTreatment(ctx context.Context, appointmentID uint, patientUID string, totalCents int64, items []models.BillingItem) (*models.BillingRecord, error) {
	status := models.BillingUnpaid
	if totalCents == 0 {
		status = models.BillingPaid
	}

	billing := &models.BillingRecord{
		ID:           appointmentID,
		PatientUID:   patientUID,
		TotalCents:   totalCents,
		Status:       status,
		Items:        items,
		Plan:         datatypes.NewJSONType(models.PaymentPlan{Type: models.PlanFull}),
		Transactions: []models.PaymentTransaction{},
	}
	if err := s.repository.Create(ctx, billing); err != nil {
		return nil, err
	}
	return billing, nil
}

// GetRecord returns the persisted ledger for an appointment, falling back
// to a synthesized virtual record when the appointment carries a completed
// treatment but no ledger exists yet.
func (s *BillingService) GetRecord(ctx context.Context, appointmentID uint) (*models.BillingRecord, error) {
	billing, err := s.repository.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if billing != nil {
		return billing, nil
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrBillingNotFound
	}
	virtual := SynthesizeVirtualRecord(appointment)
	if virtual == nil {
		return nil, ErrBillingNotFound
	}
	return virtual, nil
}

// applyPayment appends a transaction to the record's log and re-derives
// the record's status from the new remaining balance. The caller holds
// the record's lock.
func applyPayment(record *models.BillingRecord, amountCents int64, method, staffUID string) error {
	if record.RemainingCents() == 0 {
		return ErrAlreadyPaid
	}
	record.Transactions = append(record.Transactions, models.PaymentTransaction{
		ID:          uuid.New().String(),
		AmountCents: amountCents,
		Method:      method,
		Timestamp:   time.Now(),
		RecordedBy:  staffUID,
	})
	record.Status = statusForRemaining(record.TotalCents, record.RemainingCents())
	return nil
}

// RecordPayment applies a single payment to a persisted ledger. The balance
// is always derived as total minus the transaction log and floored at zero.
// The record is re-read and mutated inside the billing lock, so concurrent
// payments cannot lose a transaction. Virtual records cannot receive
// payments; the ledger must exist first.
func (s *BillingService) RecordPayment(ctx context.Context, appointmentID uint, amountCents int64, method, staffUID string) (*models.BillingRecord, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	billing, err := s.repository.Mutate(ctx, appointmentID, func(record *models.BillingRecord) error {
		return applyPayment(record, amountCents, method, staffUID)
	})
	if err != nil {
		return nil, err
	}
	if billing == nil {
		// Virtual records cannot receive payments; the ledger must be
		// materialized by treatment completion first.
		return nil, ErrBillingNotFound
	}

	// Mirror onto the appointment for dashboard consistency.
	if err := s.appointmentRepo.SetPaymentStatus(ctx, appointmentID, billing.Status); err != nil {
		log.Printf("Failed to mirror payment status onto appointment %d: %v", appointmentID, err)
	}
	return billing, nil
}

// CreateInstallmentPlan splits the outstanding balance of the selected items
// into months dated slices. Eligible items move to status "plan". A ledger
// that predates itemization splits its remaining balance instead.
func (s *BillingService) CreateInstallmentPlan(ctx context.Context, appointmentID uint, months int, itemIDs []string) (*models.BillingRecord, error) {
	if months < minPlanMonths || months > maxPlanMonths {
		return nil, ErrInvalidMonths
	}

	billing, err := s.repository.Mutate(ctx, appointmentID, func(record *models.BillingRecord) error {
		eligible := EligibleItems(record.Items, itemIDs)
		var planTotal int64
		for _, item := range eligible {
			planTotal += item.PriceCents
		}
		if len(record.Items) == 0 {
			// Legacy ledger with no itemization: split what is still owed.
			planTotal = record.RemainingCents()
		}
		if planTotal <= 0 {
			return ErrNoBalanceToSplit
		}

		installments, err := BuildInstallments(planTotal, months, time.Now())
		if err != nil {
			return err
		}

		for i := range record.Items {
			for _, item := range eligible {
				if record.Items[i].ID == item.ID {
					record.Items[i].Status = models.ItemPlan
				}
			}
		}
		record.Plan = datatypes.NewJSONType(models.PaymentPlan{
			Type:         models.PlanInstallments,
			Installments: installments,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, ErrBillingNotFound
	}
	return billing, nil
}

// List returns billing records filtered by status (paid|unpaid|partial|all).
func (s *BillingService) List(ctx context.Context, status string) ([]models.BillingRecord, error) {
	return s.repository.ListByStatus(ctx, status)
}

func (s *BillingService) ListByPatient(ctx context.Context, patientUID string) ([]models.BillingRecord, error) {
	return s.repository.ListByPatient(ctx, patientUID)
}

// SendReceipt emails the post-treatment billing summary. Fire-and-forget.
func (s *BillingService) SendReceipt(ctx context.Context, patientUID string, totalCents int64) {
	patient, err := s.userRepo.GetUserByUID(ctx, patientUID)
	if err != nil || patient == nil {
		log.Printf("Skipping receipt email, patient lookup failed: %v", err)
		return
	}
	go func() {
		if err := utils.SendBillingReceiptEmail(patient.Email, patient.DisplayName, totalCents); err != nil {
			log.Printf("Failed to send receipt email: %v", err)
		}
	}()
}
