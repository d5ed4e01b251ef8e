package repository

import (
	"context"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// PatientsRepository patients table
type PatientsRepository interface {
	// GetPatientByRUT returns ErrNotFound when no patient has the (normalized) RUT
	GetPatientByRUT(ctx context.Context, rut string) (*domain.Patient, error)
	CreatePatient(ctx context.Context, p *domain.Patient) (string, error)
	// UpdatePatientDemographics corrects name and birth date (nil keeps the stored date)
	UpdatePatientDemographics(ctx context.Context, patientID, name string, dateOfBirth *time.Time) error
}
