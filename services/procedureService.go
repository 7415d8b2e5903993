package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
)

type ProcedureService struct {
	repository *repositories.ProcedureRepository
}

func NewProcedureService(repository *repositories.ProcedureRepository) *ProcedureService {
	return &ProcedureService{repository: repository}
}

func (s *ProcedureService) Create(ctx context.Context, procedure *models.Procedure) error {
	return s.repository.Create(ctx, procedure)
}

func (s *ProcedureService) GetByID(ctx context.Context, id uint) (*models.Procedure, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *ProcedureService) GetAll(ctx context.Context) ([]models.Procedure, error) {
	return s.repository.GetAll(ctx)
}

func (s *ProcedureService) Update(ctx context.Context, procedure *models.Procedure) error {
	return s.repository.Update(ctx, procedure)
}

func (s *ProcedureService) Deactivate(ctx context.Context, id uint) error {
	return s.repository.Deactivate(ctx, id)
}
