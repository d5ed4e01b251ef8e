package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// PostgresBedAssignmentsRepository BedAssignmentsRepository on Postgres
type PostgresBedAssignmentsRepository struct {
	db dbtx
}

// NewPostgresBedAssignmentsRepository creates the repository
func NewPostgresBedAssignmentsRepository(db *sql.DB) *PostgresBedAssignmentsRepository {
	return &PostgresBedAssignmentsRepository{db: db}
}

var _ BedAssignmentsRepository = (*PostgresBedAssignmentsRepository)(nil)

const assignmentColumns = `
	assignment_id::text,
	patient_id::text,
	admission_id::text,
	room_number,
	bed_number,
	is_active,
	assigned_at,
	discharged_at
`

func scanAssignment(row interface{ Scan(...any) error }, b *domain.BedAssignment, extra ...any) error {
	var dischargedAt sql.NullTime
	dest := []any{
		&b.AssignmentID,
		&b.PatientID,
		&b.AdmissionID,
		&b.RoomNumber,
		&b.BedNumber,
		&b.IsActive,
		&b.AssignedAt,
		&dischargedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	if dischargedAt.Valid {
		b.DischargedAt = &dischargedAt.Time
	}
	return nil
}

func (r *PostgresBedAssignmentsRepository) getActive(ctx context.Context, where string, what string, args ...any) (*domain.BedAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM bed_assignments WHERE is_active AND ` + where + ` FOR UPDATE`

	var b domain.BedAssignment
	if err := scanAssignment(r.db.QueryRowContext(ctx, query, args...), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("active assignment of %s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return &b, nil
}

// GetActiveAssignmentByPatient active assignment of a patient
func (r *PostgresBedAssignmentsRepository) GetActiveAssignmentByPatient(ctx context.Context, patientID string) (*domain.BedAssignment, error) {
	return r.getActive(ctx, "patient_id = $1", "patient "+patientID, patientID)
}

// GetActiveAssignmentByBed active assignment of a physical bed
func (r *PostgresBedAssignmentsRepository) GetActiveAssignmentByBed(ctx context.Context, room string, bed int) (*domain.BedAssignment, error) {
	slot := domain.BedSlot{Room: room, Bed: bed}
	return r.getActive(ctx, "room_number = $1 AND bed_number = $2", "bed "+slot.Key(), room, bed)
}

// DeactivateAssignment closes an active assignment
func (r *PostgresBedAssignmentsRepository) DeactivateAssignment(ctx context.Context, assignmentID string, at time.Time) error {
	query := `
		UPDATE bed_assignments
		SET is_active = FALSE, discharged_at = $2
		WHERE assignment_id = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, query, assignmentID, at)
	if err != nil {
		return fmt.Errorf("failed to deactivate assignment: %w", err)
	}
	return expectOneRow(res, "active assignment "+assignmentID)
}

// CreateAssignment inserts an active assignment; the partial unique indexes
// reject a second active row per patient or per bed with ErrConflict
func (r *PostgresBedAssignmentsRepository) CreateAssignment(ctx context.Context, b *domain.BedAssignment) (string, error) {
	if b == nil || b.PatientID == "" || b.AdmissionID == "" || b.RoomNumber == "" {
		return "", fmt.Errorf("patient_id, admission_id and room_number are required")
	}
	query := `
		INSERT INTO bed_assignments (patient_id, admission_id, room_number, bed_number, is_active, assigned_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING assignment_id::text
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query, b.PatientID, b.AdmissionID, b.RoomNumber, b.BedNumber, b.AssignedAt).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to create assignment: %w", mapError(err))
	}
	return id, nil
}

// ListActiveAssignments current occupancy ordered by room and bed
func (r *PostgresBedAssignmentsRepository) ListActiveAssignments(ctx context.Context) ([]domain.BedOccupancy, error) {
	query := `
		SELECT
			ba.assignment_id::text,
			ba.patient_id::text,
			ba.admission_id::text,
			ba.room_number,
			ba.bed_number,
			ba.is_active,
			ba.assigned_at,
			ba.discharged_at,
			p.name,
			p.rut
		FROM bed_assignments ba
		JOIN patients p ON p.patient_id = ba.patient_id
		WHERE ba.is_active
		ORDER BY ba.room_number, ba.bed_number
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	out := []domain.BedOccupancy{}
	for rows.Next() {
		var o domain.BedOccupancy
		if err := scanAssignment(rows, &o.BedAssignment, &o.PatientName, &o.RUT); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return out, nil
}
