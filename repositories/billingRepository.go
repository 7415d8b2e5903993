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
	"gorm.io/gorm"
)

const (
	BillingCacheExpiry = 24 * time.Hour
)

// ErrBillingExists is returned when a record is created twice for the same
// appointment.
var ErrBillingExists = errors.New("billing record already exists")

type BillingRepository struct {
	cache *cache.Cache
}

func NewBillingRepository(cache *cache.Cache) *BillingRepository {
	return &BillingRepository{cache: cache}
}

// withLock runs fn while holding the per-appointment billing lock.
func (r *BillingRepository) withLock(ctx context.Context, id uint, fn func() error) error {
	lockKey := fmt.Sprintf("billing_lock:%d", id)
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

	return fn()
}

// Create persists a new billing record. The existence check and the insert
// run under a per-appointment distributed lock, so double treatment
// submissions cannot produce duplicate ledgers.
func (r *BillingRepository) Create(ctx context.Context, billing *models.BillingRecord) error {
	return r.withLock(ctx, billing.ID, func() error {
		var existing int64
		if err := database.DB.Model(&models.BillingRecord{}).
			Where("id = ?", billing.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check for existing billing record: %w", err)
		}
		if existing > 0 {
			return ErrBillingExists
		}

		if err := database.DB.Create(billing).Error; err != nil {
			return fmt.Errorf("failed to create billing record: %w", err)
		}
		return r.invalidate(ctx, billing.ID)
	})
}

func (r *BillingRepository) GetByID(ctx context.Context, id uint) (*models.BillingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getBillingCacheKey(id)
	cachedBilling, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedBilling != "" {
		var billing models.BillingRecord
		if err := json.Unmarshal([]byte(cachedBilling), &billing); err == nil {
			return &billing, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get billing record from cache: %v", err)
	}

	var billing models.BillingRecord
	err = database.DB.First(&billing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing record: %w", err)
	}

	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing record: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billingJSON, BillingCacheExpiry); err != nil {
		log.Printf("Failed to set billing record in cache: %v", err)
	}

	return &billing, nil
}

// ListByStatus returns billing records filtered by overall status
// ("all" or empty returns everything), newest first. Lists are cached per
// status under the billings_cache prefix, which any billing write clears.
func (r *BillingRepository) ListByStatus(ctx context.Context, status string) ([]models.BillingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if status == "" {
		status = "all"
	}
	cacheKey := fmt.Sprintf("billings_cache:%s", status)
	cachedBillings, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedBillings != "" {
		var billings []models.BillingRecord
		if err := json.Unmarshal([]byte(cachedBillings), &billings); err == nil {
			return billings, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get billing list from cache: %v", err)
	}

	query := database.DB.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("uid, display_name, email")
		}).
		Order("created_at DESC")
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var billings []models.BillingRecord
	if err := query.Find(&billings).Error; err != nil {
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}

	billingsJSON, err := json.Marshal(billings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing list: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billingsJSON, BillingCacheExpiry); err != nil {
		log.Printf("Failed to set billing list in cache: %v", err)
	}
	return billings, nil
}

func (r *BillingRepository) ListByPatient(ctx context.Context, patientUID string) ([]models.BillingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var billings []models.BillingRecord
	err := database.DB.WithContext(ctx).
		Where("patient_uid = ?", patientUID).
		Order("created_at DESC").
		Find(&billings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patient billing records: %w", err)
	}
	return billings, nil
}

// Mutate loads the record fresh from the database, applies fn, and saves
// the result, all inside the per-appointment lock used by Create. The
// cache is never consulted inside the lock, so concurrent payments
// serialize on the transaction log. Returns (nil, nil) when no record
// exists; fn errors abort the save and pass through unchanged.
func (r *BillingRepository) Mutate(ctx context.Context, id uint, fn func(*models.BillingRecord) error) (*models.BillingRecord, error) {
	var billing *models.BillingRecord
	err := r.withLock(ctx, id, func() error {
		var record models.BillingRecord
		if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get billing record: %w", err)
		}

		if err := fn(&record); err != nil {
			return err
		}

		if err := database.DB.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to update billing record: %w", err)
		}
		billing = &record
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return billing, nil
}

func (r *BillingRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, r.getBillingCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete billing cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "billings_cache*")
}

func (r *BillingRepository) getBillingCacheKey(id uint) string {
	return fmt.Sprintf("billing_cache:%d", id)
}
