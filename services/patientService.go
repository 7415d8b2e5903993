package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
)

type PatientService struct {
	recordRepo *repositories.PatientRecordRepository
}

func NewPatientService(recordRepo *repositories.PatientRecordRepository) *PatientService {
	return &PatientService{recordRepo: recordRepo}
}

// EnsurePatientNumber returns the caller's patient number, minting one
// transactionally on first use.
func (s *PatientService) EnsurePatientNumber(ctx context.Context, uid string) (string, error) {
	return s.recordRepo.EnsurePatientNumber(ctx, uid)
}

func (s *PatientService) GetRecord(ctx context.Context, uid string) (*models.PatientRecord, error) {
	return s.recordRepo.GetByUID(ctx, uid)
}

func (s *PatientService) MarkProfileComplete(ctx context.Context, uid string) error {
	return s.recordRepo.MarkProfileComplete(ctx, uid)
}
