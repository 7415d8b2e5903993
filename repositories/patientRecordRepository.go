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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PatientRecordCacheExpiry = 7 * 24 * time.Hour
)

type PatientRecordRepository struct {
	cache *cache.Cache
}

func NewPatientRecordRepository(cache *cache.Cache) *PatientRecordRepository {
	return &PatientRecordRepository{cache: cache}
}

// EnsurePatientNumber returns the patient's assigned YYYY-NNNN number,
// minting one transactionally if none exists. The counter row is re-read
// under FOR UPDATE inside the transaction, so two concurrent callers cannot
// mint the same number; if another request assigned one first, the existing
// number is returned.
func (r *PatientRecordRepository) EnsurePatientNumber(ctx context.Context, uid string) (string, error) {
	var assigned string

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.PatientRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("uid = ?", uid).
			First(&record).Error
		switch {
		case err == nil:
			if record.PatientNumber != "" {
				assigned = record.PatientNumber
				return nil
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = models.PatientRecord{UID: uid}
		default:
			return fmt.Errorf("failed to load patient record: %w", err)
		}

		var counter models.PatientCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "id = ?", 1).Error; err != nil {
			return fmt.Errorf("failed to load patient counter: %w", err)
		}

		year := time.Now().Year()
		if counter.Year != year {
			counter.Year = year
			counter.Sequence = 0
		}
		counter.Sequence++
		if err := tx.Save(&counter).Error; err != nil {
			return fmt.Errorf("failed to advance patient counter: %w", err)
		}

		record.PatientNumber = models.FormatPatientNumber(counter.Year, counter.Sequence)
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to save patient record: %w", err)
		}
		assigned = record.PatientNumber
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := r.cache.Delete(ctx, r.getRecordCacheKey(uid)); err != nil {
		log.Printf("Failed to delete patient record cache: %v", err)
	}
	return assigned, nil
}

func (r *PatientRecordRepository) GetByUID(ctx context.Context, uid string) (*models.PatientRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getRecordCacheKey(uid)
	cachedRecord, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedRecord != "" {
		var record models.PatientRecord
		if err := json.Unmarshal([]byte(cachedRecord), &record); err == nil {
			return &record, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patient record from cache: %v", err)
	}

	var record models.PatientRecord
	err = database.DB.Select("uid, patient_number, profile_complete, created_at").
		First(&record, "uid = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient record: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, recordJSON, PatientRecordCacheExpiry); err != nil {
		log.Printf("Failed to set patient record in cache: %v", err)
	}

	return &record, nil
}

func (r *PatientRecordRepository) MarkProfileComplete(ctx context.Context, uid string) error {
	err := database.DB.Model(&models.PatientRecord{}).
		Where("uid = ?", uid).
		Update("profile_complete", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark profile complete: %w", err)
	}
	return r.cache.Delete(ctx, r.getRecordCacheKey(uid))
}

func (r *PatientRecordRepository) getRecordCacheKey(uid string) string {
	return fmt.Sprintf("patient_record_cache:%s", uid)
}
