package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// PostgresPatientsRepository PatientsRepository on Postgres
type PostgresPatientsRepository struct {
	db dbtx
}

// NewPostgresPatientsRepository creates the repository on a pool or transaction
func NewPostgresPatientsRepository(db *sql.DB) *PostgresPatientsRepository {
	return &PostgresPatientsRepository{db: db}
}

var _ PatientsRepository = (*PostgresPatientsRepository)(nil)

// GetPatientByRUT locks the row for the rest of the transaction
func (r *PostgresPatientsRepository) GetPatientByRUT(ctx context.Context, rut string) (*domain.Patient, error) {
	if rut == "" {
		return nil, fmt.Errorf("rut is required")
	}

	query := `
		SELECT
			patient_id::text,
			rut,
			name,
			date_of_birth,
			status,
			admission_date,
			created_at,
			updated_at
		FROM patients
		WHERE rut = $1
		FOR UPDATE
	`

	var p domain.Patient
	var dob, admissionDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, rut).Scan(
		&p.PatientID,
		&p.RUT,
		&p.Name,
		&dob,
		&p.Status,
		&admissionDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("patient %s: %w", rut, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if dob.Valid {
		p.DateOfBirth = &dob.Time
	}
	if admissionDate.Valid {
		p.AdmissionDate = &admissionDate.Time
	}
	return &p, nil
}

// CreatePatient inserts a patient and returns its id
func (r *PostgresPatientsRepository) CreatePatient(ctx context.Context, p *domain.Patient) (string, error) {
	if p == nil || p.RUT == "" || p.Name == "" {
		return "", fmt.Errorf("rut and name are required")
	}

	query := `
		INSERT INTO patients (rut, name, date_of_birth, status, admission_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING patient_id::text
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query, p.RUT, p.Name, nullTime(p.DateOfBirth), p.Status, nullTime(p.AdmissionDate)).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to create patient: %w", mapError(err))
	}
	return id, nil
}

// UpdatePatientDemographics corrects name and, when given, birth date
func (r *PostgresPatientsRepository) UpdatePatientDemographics(ctx context.Context, patientID, name string, dateOfBirth *time.Time) error {
	query := `
		UPDATE patients
		SET name = $2,
		    date_of_birth = COALESCE($3, date_of_birth),
		    updated_at = NOW()
		WHERE patient_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, patientID, name, nullTime(dateOfBirth))
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return expectOneRow(res, "patient "+patientID)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
