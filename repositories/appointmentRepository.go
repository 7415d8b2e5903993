package repositories

import (
	"PearlDental/cache"
	"PearlDental/database"
	"PearlDental/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 24 * time.Hour
)

// Domain-rule errors surfaced verbatim to callers.
var (
	ErrSlotTaken    = errors.New("time slot already booked")
	ErrClinicClosed = errors.New("clinic is closed on this date")
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

// CreateBooking creates a pending appointment under a per-slot distributed
// lock. The slot and closure checks are re-run inside the lock, so two
// concurrent bookings for the same slot cannot both succeed.
func (r *AppointmentRepository) CreateBooking(ctx context.Context, appointment *models.Appointment) error {
	lockKey := fmt.Sprintf("slot_lock:%s_%s", appointment.Date, appointment.Time)
	lockValue := uuid.New().String()
	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	// Re-check under the lock: a closure declared or a booking created since
	// the caller's availability read must still reject this write.
	var closures int64
	if err := database.DB.Model(&models.ClinicClosure{}).
		Where("date = ?", appointment.Date).
		Count(&closures).Error; err != nil {
		return fmt.Errorf("failed to check clinic closures: %w", err)
	}
	if closures > 0 {
		return ErrClinicClosed
	}

	var conflicts int64
	if err := database.DB.Model(&models.Appointment{}).
		Where("date = ? AND time = ? AND status <> ?", appointment.Date, appointment.Time, models.AppointmentCancelled).
		Count(&conflicts).Error; err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	appointment.Status = models.AppointmentPending
	if err := database.DB.Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return r.invalidate(ctx, appointment)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointment models.Appointment
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("uid, email, role, display_name, phone")
		}).
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// ListByDate returns all non-cancelled appointments for a calendar date.
// Availability reads are frequent, so the result is cached per date.
func (r *AppointmentRepository) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDateCacheKey(date)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var appointments []models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointments); err == nil {
			return appointments, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get day schedule from cache: %v", err)
	}

	var appointments []models.Appointment
	err = database.DB.Select("id, patient_uid, dentist_uid, date, time, service_type, status, payment_status, created_at").
		Where("date = ? AND status <> ?", date, models.AppointmentCancelled).
		Order("time").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for date: %w", err)
	}

	appointmentsJSON, err := json.Marshal(appointments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointments: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentsJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set day schedule in cache: %v", err)
	}

	return appointments, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientUID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.
		Where("patient_uid = ?", patientUID).
		Order("date DESC, time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus transitions the appointment status. Transition legality is
// the service layer's concern; the repository only persists.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointment *models.Appointment, status string) error {
	if err := database.DB.Model(appointment).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	appointment.Status = status
	return r.invalidate(ctx, appointment)
}

func (r *AppointmentRepository) AssignDentist(ctx context.Context, appointment *models.Appointment, dentistUID string) error {
	if err := database.DB.Model(appointment).Update("dentist_uid", dentistUID).Error; err != nil {
		return fmt.Errorf("failed to assign dentist: %w", err)
	}
	appointment.DentistUID = dentistUID
	return r.invalidate(ctx, appointment)
}

// SetTreatment persists the completed treatment record, marks the
// appointment completed, and clears the schedule cache.
func (r *AppointmentRepository) SetTreatment(ctx context.Context, appointment *models.Appointment, record models.TreatmentRecord) error {
	treatment := datatypes.NewJSONType(record)
	updates := map[string]interface{}{
		"treatment": treatment,
		"status":    models.AppointmentCompleted,
	}
	if err := database.DB.Model(appointment).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record treatment: %w", err)
	}
	appointment.Treatment = &treatment
	appointment.Status = models.AppointmentCompleted
	return r.invalidate(ctx, appointment)
}

// Move reschedules an appointment to a new date/time under the target
// slot's lock, re-running the closure and conflict checks before writing.
func (r *AppointmentRepository) Move(ctx context.Context, appointment *models.Appointment, date, timeOfDay string) error {
	lockKey := fmt.Sprintf("slot_lock:%s_%s", date, timeOfDay)
	lockValue := uuid.New().String()
	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	var closures int64
	if err := database.DB.Model(&models.ClinicClosure{}).
		Where("date = ?", date).
		Count(&closures).Error; err != nil {
		return fmt.Errorf("failed to check clinic closures: %w", err)
	}
	if closures > 0 {
		return ErrClinicClosed
	}

	var conflicts int64
	if err := database.DB.Model(&models.Appointment{}).
		Where("date = ? AND time = ? AND status <> ? AND id <> ?", date, timeOfDay, models.AppointmentCancelled, appointment.ID).
		Count(&conflicts).Error; err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	oldDate := appointment.Date
	updates := map[string]interface{}{"date": date, "time": timeOfDay}
	if err := database.DB.Model(appointment).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	appointment.Date = date
	appointment.Time = timeOfDay

	if err := r.cache.Delete(ctx, r.getDateCacheKey(oldDate)); err != nil {
		return fmt.Errorf("failed to delete day schedule cache: %w", err)
	}
	return r.invalidate(ctx, appointment)
}

func (r *AppointmentRepository) SetPaymentStatus(ctx context.Context, id uint, paymentStatus string) error {
	err := database.DB.Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("payment_status", paymentStatus).Error
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context, appointment *models.Appointment) error {
	if err := r.cache.Delete(ctx, r.getDateCacheKey(appointment.Date)); err != nil {
		return fmt.Errorf("failed to delete day schedule cache: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) getDateCacheKey(date string) string {
	return fmt.Sprintf("schedule_cache:%s", date)
}
