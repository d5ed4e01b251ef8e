package service

import "errors"

var (
	ErrBedOccupied       = errors.New("bed is occupied by another patient")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrNoActiveAdmission = errors.New("patient has no active admission")
	ErrNotAssigned       = errors.New("patient holds no bed")
	ErrReportNotFound    = errors.New("import report not found")
	ErrInvalidRequest    = errors.New("invalid request")
	// ErrDuplicateInBatch a bed or RUT already claimed by an earlier row of the same sheet
	ErrDuplicateInBatch = errors.New("already claimed")
)

// ReconciliationError failure of one handover record, attributed by patient name
type ReconciliationError struct {
	PatientName string
	Err         error
}

func (e *ReconciliationError) Error() string {
	return e.PatientName + ": " + e.Err.Error()
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
