package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// PostgresAdmissionsRepository AdmissionsRepository on Postgres
type PostgresAdmissionsRepository struct {
	db dbtx
}

// NewPostgresAdmissionsRepository creates the repository
func NewPostgresAdmissionsRepository(db *sql.DB) *PostgresAdmissionsRepository {
	return &PostgresAdmissionsRepository{db: db}
}

var _ AdmissionsRepository = (*PostgresAdmissionsRepository)(nil)

// GetActiveAdmission locks the active admission of a patient
func (r *PostgresAdmissionsRepository) GetActiveAdmission(ctx context.Context, patientID string) (*domain.Admission, error) {
	query := `
		SELECT
			admission_id::text,
			patient_id::text,
			status,
			admission_date,
			discharge_date,
			COALESCE(diagnoses, '{}'),
			oxygen_requirement::text,
			COALESCE(respiratory_score, ''),
			COALESCE(viral_panel, ''),
			COALESCE(pending_tasks, ''),
			COALESCE(treatment_plan, ''),
			antibiotics::text,
			score_tracking::text,
			created_at,
			updated_at
		FROM admissions
		WHERE patient_id = $1 AND status = 'active'
		FOR UPDATE
	`

	var a domain.Admission
	var dischargeDate sql.NullTime
	var oxygen, antibiotics, scoreTracking sql.NullString
	err := r.db.QueryRowContext(ctx, query, patientID).Scan(
		&a.AdmissionID,
		&a.PatientID,
		&a.Status,
		&a.AdmissionDate,
		&dischargeDate,
		pq.Array(&a.Diagnoses),
		&oxygen,
		&a.RespiratoryScore,
		&a.ViralPanel,
		&a.PendingTasks,
		&a.TreatmentPlan,
		&antibiotics,
		&scoreTracking,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("active admission of patient %s: %w", patientID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active admission: %w", err)
	}
	if dischargeDate.Valid {
		a.DischargeDate = &dischargeDate.Time
	}
	if err := fromJSONB(oxygen, &a.Oxygen, "oxygen_requirement"); err != nil {
		return nil, err
	}
	if err := fromJSONB(antibiotics, &a.Antibiotics, "antibiotics"); err != nil {
		return nil, err
	}
	if err := fromJSONB(scoreTracking, &a.ScoreTracking, "score_tracking"); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmission inserts an admission and returns its id
func (r *PostgresAdmissionsRepository) CreateAdmission(ctx context.Context, a *domain.Admission) (string, error) {
	if a == nil || a.PatientID == "" {
		return "", fmt.Errorf("patient_id is required")
	}
	cols, err := clinicalColumns(a)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO admissions (
			patient_id, status, admission_date,
			diagnoses, oxygen_requirement, respiratory_score, viral_panel,
			pending_tasks, treatment_plan, antibiotics, score_tracking
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING admission_id::text
	`
	var id string
	err = r.db.QueryRowContext(ctx, query,
		a.PatientID, string(a.Status), a.AdmissionDate,
		pq.Array(a.Diagnoses), cols.oxygen, a.RespiratoryScore, a.ViralPanel,
		a.PendingTasks, a.TreatmentPlan, cols.antibiotics, cols.scoreTracking,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create admission: %w", mapError(err))
	}
	return id, nil
}

// UpdateAdmissionClinicalContext overwrites the clinical fields (last import wins)
func (r *PostgresAdmissionsRepository) UpdateAdmissionClinicalContext(ctx context.Context, a *domain.Admission) error {
	cols, err := clinicalColumns(a)
	if err != nil {
		return err
	}

	query := `
		UPDATE admissions
		SET diagnoses = $2,
		    oxygen_requirement = $3,
		    respiratory_score = $4,
		    viral_panel = $5,
		    pending_tasks = $6,
		    treatment_plan = $7,
		    antibiotics = $8,
		    score_tracking = $9,
		    updated_at = NOW()
		WHERE admission_id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		a.AdmissionID,
		pq.Array(a.Diagnoses), cols.oxygen, a.RespiratoryScore, a.ViralPanel,
		a.PendingTasks, a.TreatmentPlan, cols.antibiotics, cols.scoreTracking,
	)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	return expectOneRow(res, "admission "+a.AdmissionID)
}

type admissionJSON struct {
	oxygen, antibiotics, scoreTracking sql.NullString
}

func clinicalColumns(a *domain.Admission) (admissionJSON, error) {
	var out admissionJSON
	var err error
	if out.oxygen, err = toJSONB(a.Oxygen, a.Oxygen == nil); err != nil {
		return out, fmt.Errorf("failed to encode oxygen_requirement: %w", err)
	}
	if out.antibiotics, err = toJSONB(a.Antibiotics, len(a.Antibiotics) == 0); err != nil {
		return out, fmt.Errorf("failed to encode antibiotics: %w", err)
	}
	if out.scoreTracking, err = toJSONB(a.ScoreTracking, a.ScoreTracking == nil); err != nil {
		return out, fmt.Errorf("failed to encode score_tracking: %w", err)
	}
	return out, nil
}
