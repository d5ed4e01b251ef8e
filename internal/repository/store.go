// Package repository persists patients, admissions and bed assignments.
package repository

import "context"

// Stores repositories bound to one transaction (or to the pool outside one)
type Stores struct {
	Patients   PatientsRepository
	Admissions AdmissionsRepository
	Beds       BedAssignmentsRepository
}

// Transactor runs fn atomically: either every write in fn is applied or none is.
// A non-nil error from fn rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
	// Stores non-transactional access for reads
	Stores() Stores
}
