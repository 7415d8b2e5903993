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
	InventoryCacheExpiry = 24 * time.Hour
)

// ErrInsufficientStock is returned when a consumption would drive stock
// below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryRepository struct {
	cache *cache.Cache
}

func NewInventoryRepository(cache *cache.Cache) *InventoryRepository {
	return &InventoryRepository{cache: cache}
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	item.Active = true
	if err := database.DB.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.InventoryItem
	err := database.DB.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (r *InventoryRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "inventory_cache"
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var items []models.InventoryItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get inventory from cache: %v", err)
	}

	var items []models.InventoryItem
	err = database.DB.Where("active = ?", true).Order("name").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, itemsJSON, InventoryCacheExpiry); err != nil {
		log.Printf("Failed to set inventory in cache: %v", err)
	}

	return items, nil
}

// ListConsumables returns active items offered in the treatment consumable
// picker. The reserved "instrument" category is excluded.
func (r *InventoryRepository) ListConsumables(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var items []models.InventoryItem
	err := database.DB.WithContext(ctx).
		Where("active = ? AND category <> ?", true, models.InventoryCategoryInstrument).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consumables: %w", err)
	}
	return items, nil
}

// ListLowStock returns active items at or below their minimum threshold.
func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var items []models.InventoryItem
	err := database.DB.WithContext(ctx).
		Where("active = ? AND stock <= min_threshold", true).
		Order("stock").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	if err := database.DB.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return r.invalidate(ctx)
}

// AdjustStock changes an item's stock by delta inside a transaction,
// rejecting adjustments that would take it negative.
func (r *InventoryRepository) AdjustStock(ctx context.Context, id uint, delta int) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to find inventory item: %w", err)
		}
		if item.Stock+delta < 0 {
			return ErrInsufficientStock
		}
		return tx.Model(&item).Update("stock", item.Stock+delta).Error
	})
	if err != nil {
		return err
	}
	return r.invalidate(ctx)
}

// Consume decrements stock for each consumed item. Missing items are logged
// and skipped rather than failing the treatment write.
func (r *InventoryRepository) Consume(ctx context.Context, consumed []models.ConsumedItem) error {
	for _, c := range consumed {
		if err := r.AdjustStock(ctx, c.ItemID, -c.Quantity); err != nil {
			log.Printf("Failed to consume inventory item %d: %v", c.ItemID, err)
		}
	}
	return r.invalidate(ctx)
}

// Deactivate is the soft delete: the item disappears from pickers but its
// history stays intact.
func (r *InventoryRepository) Deactivate(ctx context.Context, id uint) error {
	err := database.DB.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate inventory item: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *InventoryRepository) invalidate(ctx context.Context) error {
	return r.cache.Delete(ctx, "inventory_cache")
}
