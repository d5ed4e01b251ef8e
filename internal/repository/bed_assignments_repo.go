package repository

import (
	"context"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// BedAssignmentsRepository bed_assignments table.
// At most one active row per patient and per (room_number, bed_number).
type BedAssignmentsRepository interface {
	// GetActiveAssignmentByPatient returns ErrNotFound when the patient holds no bed
	GetActiveAssignmentByPatient(ctx context.Context, patientID string) (*domain.BedAssignment, error)
	// GetActiveAssignmentByBed returns ErrNotFound when the bed is free
	GetActiveAssignmentByBed(ctx context.Context, room string, bed int) (*domain.BedAssignment, error)
	// DeactivateAssignment returns ErrNotFound when the assignment is not active
	DeactivateAssignment(ctx context.Context, assignmentID string, at time.Time) error
	CreateAssignment(ctx context.Context, b *domain.BedAssignment) (string, error)
	ListActiveAssignments(ctx context.Context) ([]domain.BedOccupancy, error)
}
