package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/notify"
	"github.com/astro-cL99/pediatria-sub001/internal/repository"
)

// placement target of a bed move; callers hold the patient and bed locks and an open transaction
type placement struct {
	Patient     *domain.Patient
	AdmissionID string
	Slot        domain.BedSlot
	At          time.Time
	// Displace deactivates another patient found in the bed instead of failing with ErrBedOccupied
	Displace bool
}

// placeInBed leaves exactly one active assignment for the patient, at p.Slot.
// Returns the active assignment and the transitions it caused; no transitions when
// the patient already holds the slot under the same admission.
func placeInBed(ctx context.Context, s repository.Stores, p placement) (*domain.BedAssignment, []notify.BedTransition, error) {
	prior, err := s.Beds.GetActiveAssignmentByPatient(ctx, p.Patient.PatientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to get current bed: %w", err)
	}
	if prior != nil && prior.Slot() == p.Slot && prior.AdmissionID == p.AdmissionID {
		return prior, nil, nil
	}

	var transitions []notify.BedTransition

	occupant, err := s.Beds.GetActiveAssignmentByBed(ctx, p.Slot.Room, p.Slot.Bed)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to get bed %s: %w", p.Slot.Key(), err)
	}
	if occupant != nil && occupant.PatientID != p.Patient.PatientID {
		if !p.Displace {
			return nil, nil, ErrBedOccupied
		}
		if err := s.Beds.DeactivateAssignment(ctx, occupant.AssignmentID, p.At); err != nil {
			return nil, nil, fmt.Errorf("failed to release bed %s: %w", p.Slot.Key(), err)
		}
		from := occupant.Slot()
		transitions = append(transitions, notify.BedTransition{
			Kind:      notify.TransitionDisplaced,
			PatientID: occupant.PatientID,
			From:      &from,
			At:        p.At,
		})
	}

	if prior != nil {
		if err := s.Beds.DeactivateAssignment(ctx, prior.AssignmentID, p.At); err != nil {
			return nil, nil, fmt.Errorf("failed to release previous bed: %w", err)
		}
	}

	next := &domain.BedAssignment{
		PatientID:   p.Patient.PatientID,
		AdmissionID: p.AdmissionID,
		RoomNumber:  p.Slot.Room,
		BedNumber:   p.Slot.Bed,
		IsActive:    true,
		AssignedAt:  p.At,
	}
	id, err := s.Beds.CreateAssignment(ctx, next)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assign bed %s: %w", p.Slot.Key(), err)
	}
	next.AssignmentID = id

	to := p.Slot
	tr := notify.BedTransition{
		Kind:        notify.TransitionAssigned,
		PatientID:   p.Patient.PatientID,
		PatientName: p.Patient.Name,
		RUT:         p.Patient.RUT,
		To:          &to,
		At:          p.At,
	}
	if prior != nil && prior.Slot() != p.Slot {
		from := prior.Slot()
		tr.Kind = notify.TransitionTransferred
		tr.From = &from
	}
	transitions = append(transitions, tr)
	return next, transitions, nil
}
