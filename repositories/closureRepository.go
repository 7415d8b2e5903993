package repositories

import (
	"PearlDental/cache"
	"PearlDental/database"
	"PearlDental/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ClosureRepository struct {
	cache *cache.Cache
}

func NewClosureRepository(cache *cache.Cache) *ClosureRepository {
	return &ClosureRepository{cache: cache}
}

// GetByDate returns the closure declared for a date, or nil.
func (r *ClosureRepository) GetByDate(ctx context.Context, date string) (*models.ClinicClosure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var closure models.ClinicClosure
	err := database.DB.WithContext(ctx).First(&closure, "date = ?", date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clinic closure: %w", err)
	}
	return &closure, nil
}

func (r *ClosureRepository) ListUpcoming(ctx context.Context, from string) ([]models.ClinicClosure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var closures []models.ClinicClosure
	err := database.DB.WithContext(ctx).
		Where("date >= ?", from).
		Order("date").
		Find(&closures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list clinic closures: %w", err)
	}
	return closures, nil
}

func (r *ClosureRepository) Create(ctx context.Context, closure *models.ClinicClosure) error {
	if err := database.DB.WithContext(ctx).Create(closure).Error; err != nil {
		return fmt.Errorf("failed to declare clinic closure: %w", err)
	}
	// Drop the cached day schedule so availability reflects the closure.
	return r.cache.Delete(ctx, fmt.Sprintf("schedule_cache:%s", closure.Date))
}

func (r *ClosureRepository) Delete(ctx context.Context, id uint) error {
	var closure models.ClinicClosure
	if err := database.DB.WithContext(ctx).First(&closure, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to find clinic closure: %w", err)
	}
	if err := database.DB.WithContext(ctx).Delete(&models.ClinicClosure{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete clinic closure: %w", err)
	}
	return r.cache.Delete(ctx, fmt.Sprintf("schedule_cache:%s", closure.Date))
}
