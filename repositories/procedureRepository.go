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
)

const (
	ProcedureCacheExpiry = 7 * 24 * time.Hour
)

type ProcedureRepository struct {
	cache *cache.Cache
}

func NewProcedureRepository(cache *cache.Cache) *ProcedureRepository {
	return &ProcedureRepository{cache: cache}
}

func (r *ProcedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	procedure.Active = true
	if err := database.DB.Create(procedure).Error; err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *ProcedureRepository) GetByID(ctx context.Context, id uint) (*models.Procedure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var procedure models.Procedure
	err := database.DB.WithContext(ctx).First(&procedure, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get procedure: %w", err)
	}
	return &procedure, nil
}

// GetAll returns the active service catalog, cached.
func (r *ProcedureRepository) GetAll(ctx context.Context) ([]models.Procedure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "procedures_cache"
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var procedures []models.Procedure
		if err := json.Unmarshal([]byte(cached), &procedures); err == nil {
			return procedures, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get procedures from cache: %v", err)
	}

	var procedures []models.Procedure
	err = database.DB.Where("active = ?", true).Order("code").Find(&procedures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}

	proceduresJSON, err := json.Marshal(procedures)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal procedures: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, proceduresJSON, ProcedureCacheExpiry); err != nil {
		log.Printf("Failed to set procedures in cache: %v", err)
	}

	return procedures, nil
}

func (r *ProcedureRepository) Update(ctx context.Context, procedure *models.Procedure) error {
	if err := database.DB.Save(procedure).Error; err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}
	return r.invalidate(ctx)
}

// Deactivate retires a catalog entry without touching historical billing
// items, which snapshot prices at treatment time.
func (r *ProcedureRepository) Deactivate(ctx context.Context, id uint) error {
	err := database.DB.Model(&models.Procedure{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate procedure: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *ProcedureRepository) invalidate(ctx context.Context) error {
	return r.cache.Delete(ctx, "procedures_cache")
}
