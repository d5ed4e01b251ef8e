package service

import (
	"context"
	"testing"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignBed(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	env.handover.Reconcile(ctx, []domain.HandoverRecord{
		record("Ana Pérez", "1-9", "501", 1),
		record("Benito Soto", "2-7", "502", 1),
	})

	t.Run("occupied bed is refused", func(t *testing.T) {
		_, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "1-9", Room: "502", Bed: 1})
		assert.ErrorIs(t, err, ErrBedOccupied)
		assert.Equal(t, map[string]string{"501-1": "1-9", "502-1": "2-7"}, activeAt(t, env))
	})

	t.Run("move to a free bed", func(t *testing.T) {
		a, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "1-9", Room: "503a", Bed: 2})
		require.NoError(t, err)
		assert.Equal(t, "503A", a.RoomNumber)
		assert.True(t, a.IsActive)
		assert.Equal(t, map[string]string{"503A-2": "1-9", "502-1": "2-7"}, activeAt(t, env))

		last := env.notifier.beds[len(env.notifier.beds)-1]
		assert.Equal(t, notify.TransitionTransferred, last.Kind)
		assert.Equal(t, "501-1", last.From.Key())
	})

	t.Run("same bed again is a no-op", func(t *testing.T) {
		before := env.store.Counts().Assignments
		_, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "1-9", Room: "503A", Bed: 2})
		require.NoError(t, err)
		assert.Equal(t, before, env.store.Counts().Assignments)
	})

	t.Run("unknown patient", func(t *testing.T) {
		_, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "9-9", Room: "504", Bed: 1})
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "1-9", Room: "504", Bed: 0})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		_, err = env.beds.AssignBed(ctx, AssignBedRequest{Room: "504", Bed: 1})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestAssignBed_NoActiveAdmission(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	_, err := env.store.Stores().Patients.CreatePatient(ctx, &domain.Patient{RUT: "5-1", Name: "Sin Ingreso", Status: "discharged"})
	require.NoError(t, err)

	_, err = env.beds.AssignBed(ctx, AssignBedRequest{RUT: "5-1", Room: "501", Bed: 1})
	assert.ErrorIs(t, err, ErrNoActiveAdmission)
}

func TestReleaseBed(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	env.handover.Reconcile(ctx, []domain.HandoverRecord{record("Ana Pérez", "1-9", "501", 1)})

	require.NoError(t, env.beds.ReleaseBed(ctx, " 1-9 "))
	assert.Empty(t, activeAt(t, env))
	assert.Equal(t, 1, env.store.Counts().ActiveAdmissions)

	last := env.notifier.beds[len(env.notifier.beds)-1]
	assert.Equal(t, notify.TransitionReleased, last.Kind)
	assert.Equal(t, "501-1", last.From.Key())

	assert.ErrorIs(t, env.beds.ReleaseBed(ctx, "1-9"), ErrNotAssigned)
	assert.ErrorIs(t, env.beds.ReleaseBed(ctx, "7-7"), ErrPatientNotFound)
	assert.ErrorIs(t, env.beds.ReleaseBed(ctx, ""), ErrInvalidRequest)

	// the patient can be placed again afterwards
	_, err := env.beds.AssignBed(ctx, AssignBedRequest{RUT: "1-9", Room: "501", Bed: 1})
	require.NoError(t, err)
}

func TestListOccupancy_Ordered(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	env.handover.Reconcile(ctx, []domain.HandoverRecord{
		record("C", "3-5", "502", 1),
		record("B", "2-7", "501", 2),
		record("A", "1-9", "501", 1),
	})

	list, err := env.beds.ListOccupancy(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "501-1", list[0].Slot().Key())
	assert.Equal(t, "A", list[0].PatientName)
	assert.Equal(t, "501-2", list[1].Slot().Key())
	assert.Equal(t, "502-1", list[2].Slot().Key())
}
