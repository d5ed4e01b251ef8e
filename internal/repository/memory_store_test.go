package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

func seedPatientAdmission(t *testing.T, s Stores, rut string) (string, string) {
	t.Helper()
	ctx := context.Background()
	pid, err := s.Patients.CreatePatient(ctx, &domain.Patient{RUT: rut, Name: "P " + rut, Status: "active"})
	require.NoError(t, err)
	aid, err := s.Admissions.CreateAdmission(ctx, &domain.Admission{PatientID: pid, Status: domain.AdmissionActive, AdmissionDate: time.Now()})
	require.NoError(t, err)
	return pid, aid
}

func TestMemoryStore_UniqueConstraints(t *testing.T) {
	store := NewMemoryStore()
	s := store.Stores()
	ctx := context.Background()

	pid, aid := seedPatientAdmission(t, s, "1-9")

	_, err := s.Patients.CreatePatient(ctx, &domain.Patient{RUT: "1-9", Name: "dup"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Admissions.CreateAdmission(ctx, &domain.Admission{PatientID: pid, Status: domain.AdmissionActive})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Beds.CreateAssignment(ctx, &domain.BedAssignment{PatientID: pid, AdmissionID: aid, RoomNumber: "501", BedNumber: 1})
	require.NoError(t, err)

	// same patient, second bed
	_, err = s.Beds.CreateAssignment(ctx, &domain.BedAssignment{PatientID: pid, AdmissionID: aid, RoomNumber: "502", BedNumber: 1})
	assert.ErrorIs(t, err, ErrConflict)

	// other patient, same bed
	pid2, aid2 := seedPatientAdmission(t, s, "2-7")
	_, err = s.Beds.CreateAssignment(ctx, &domain.BedAssignment{PatientID: pid2, AdmissionID: aid2, RoomNumber: "501", BedNumber: 1})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, MemoryCounts{Patients: 2, Admissions: 2, ActiveAdmissions: 2, Assignments: 1, ActiveAssignments: 1}, store.Counts())
}

func TestMemoryStore_WithinTxRollsBack(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		seedPatientAdmission(t, s, "1-9")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, MemoryCounts{}, store.Counts())

	err = store.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		seedPatientAdmission(t, s, "1-9")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Counts().Patients)
}

func TestMemoryStore_ReturnedAdmissionIsACopy(t *testing.T) {
	store := NewMemoryStore()
	s := store.Stores()
	ctx := context.Background()

	pid, _ := seedPatientAdmission(t, s, "1-9")
	a, err := s.Admissions.GetActiveAdmission(ctx, pid)
	require.NoError(t, err)
	a.ScoreTracking = &domain.RespiratoryScoreTracking{Current: 3}
	a.Diagnoses = append(a.Diagnoses, "x")

	again, err := s.Admissions.GetActiveAdmission(ctx, pid)
	require.NoError(t, err)
	assert.Nil(t, again.ScoreTracking)
	assert.Empty(t, again.Diagnoses)

	require.NoError(t, s.Admissions.UpdateAdmissionClinicalContext(ctx, a))
	again, err = s.Admissions.GetActiveAdmission(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, again.Diagnoses)
	assert.Equal(t, 3, again.ScoreTracking.Current)
}

func TestMemoryStore_DeactivateAndList(t *testing.T) {
	store := NewMemoryStore()
	s := store.Stores()
	ctx := context.Background()

	pid, aid := seedPatientAdmission(t, s, "1-9")
	bid, err := s.Beds.CreateAssignment(ctx, &domain.BedAssignment{PatientID: pid, AdmissionID: aid, RoomNumber: "501", BedNumber: 2})
	require.NoError(t, err)

	list, err := s.Beds.ListActiveAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "P 1-9", list[0].PatientName)

	require.NoError(t, s.Beds.DeactivateAssignment(ctx, bid, time.Now()))
	assert.ErrorIs(t, s.Beds.DeactivateAssignment(ctx, bid, time.Now()), ErrNotFound)

	_, err = s.Beds.GetActiveAssignmentByBed(ctx, "501", 2)
	assert.ErrorIs(t, err, ErrNotFound)

	all := store.Assignments()
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
	assert.NotNil(t, all[0].DischargedAt)
}

func TestMemoryStore_UpdateDemographicsKeepsBirthDate(t *testing.T) {
	store := NewMemoryStore()
	s := store.Stores()
	ctx := context.Background()

	dob := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	pid, err := s.Patients.CreatePatient(ctx, &domain.Patient{RUT: "1-9", Name: "Ana", DateOfBirth: &dob})
	require.NoError(t, err)

	require.NoError(t, s.Patients.UpdatePatientDemographics(ctx, pid, "Ana María", nil))
	p, err := s.Patients.GetPatientByRUT(ctx, "1-9")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", p.Name)
	assert.True(t, dob.Equal(*p.DateOfBirth))

	assert.ErrorIs(t, s.Patients.UpdatePatientDemographics(ctx, "nope", "x", nil), ErrNotFound)
}
