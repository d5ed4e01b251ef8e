package domain

import (
	"strings"
	"time"
)

// Patient patient identity (patients table)
// Natural key is the RUT; rows are never hard-deleted by the import.
type Patient struct {
	PatientID     string     `db:"patient_id" json:"patient_id"`
	RUT           string     `db:"rut" json:"rut"` // normalized, UNIQUE
	Name          string     `db:"name" json:"name"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Status        string     `db:"status" json:"status"` // active/discharged/transferred/deceased
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// NormalizeRUT trims and uppercases a RUT. Dots and the check-digit dash are kept:
// "11.111.111-k" and "11.111.111-K" are the same patient, "11111111-1" is not rewritten.
func NormalizeRUT(rut string) string {
	return strings.ToUpper(strings.TrimSpace(rut))
}
