package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
)

type InventoryService struct {
	repository *repositories.InventoryRepository
}

func NewInventoryService(repository *repositories.InventoryRepository) *InventoryService {
	return &InventoryService{repository: repository}
}

func (s *InventoryService) Create(ctx context.Context, item *models.InventoryItem) error {
	return s.repository.Create(ctx, item)
}

func (s *InventoryService) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *InventoryService) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repository.GetAll(ctx)
}

func (s *InventoryService) ListConsumables(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repository.ListConsumables(ctx)
}

func (s *InventoryService) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repository.ListLowStock(ctx)
}

func (s *InventoryService) Update(ctx context.Context, item *models.InventoryItem) error {
	return s.repository.Update(ctx, item)
}

func (s *InventoryService) AdjustStock(ctx context.Context, id uint, delta int) error {
	return s.repository.AdjustStock(ctx, id, delta)
}

func (s *InventoryService) Deactivate(ctx context.Context, id uint) error {
	return s.repository.Deactivate(ctx, id)
}
