package repository

import (
	"context"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// AdmissionsRepository admissions table; at most one active admission per patient
type AdmissionsRepository interface {
	// GetActiveAdmission returns ErrNotFound when the patient has no active admission
	GetActiveAdmission(ctx context.Context, patientID string) (*domain.Admission, error)
	CreateAdmission(ctx context.Context, a *domain.Admission) (string, error)
	// UpdateAdmissionClinicalContext overwrites the clinical fields of an admission
	UpdateAdmissionClinicalContext(ctx context.Context, a *domain.Admission) error
}
