package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/lock"
	"github.com/astro-cL99/pediatria-sub001/internal/notify"
	"github.com/astro-cL99/pediatria-sub001/internal/repository"

	"go.uber.org/zap"
)

// BedService manual bed operations; same locks as the reconciler
type BedService struct {
	tx       repository.Transactor
	locker   lock.Locker
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewBedService creates the bed service. notifier may be nil.
func NewBedService(tx repository.Transactor, locker lock.Locker, notifier notify.Notifier, logger *zap.Logger) *BedService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &BedService{
		tx:       tx,
		locker:   locker,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// AssignBedRequest move a patient's active admission into a bed
type AssignBedRequest struct {
	RUT  string `json:"rut"`
	Room string `json:"room"`
	Bed  int    `json:"bed"`
}

// AssignBed places the patient in the bed. Fails with ErrBedOccupied when another
// patient holds it; unlike an import, a manual assignment never displaces anyone.
func (s *BedService) AssignBed(ctx context.Context, req AssignBedRequest) (*domain.BedAssignment, error) {
	rut := domain.NormalizeRUT(req.RUT)
	if rut == "" {
		return nil, fmt.Errorf("%w: rut is required", ErrInvalidRequest)
	}
	slot := domain.BedSlot{Room: strings.ToUpper(strings.TrimSpace(req.Room)), Bed: req.Bed}
	if slot.Room == "" || slot.Bed < 1 {
		return nil, fmt.Errorf("%w: invalid bed %q", ErrInvalidRequest, slot.Key())
	}

	unlock, err := s.locker.Lock(ctx, lock.PatientKey(rut), lock.BedKey(slot.Key()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	var (
		assignment  *domain.BedAssignment
		transitions []notify.BedTransition
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		patient, err := st.Patients.GetPatientByRUT(ctx, rut)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPatientNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		adm, err := st.Admissions.GetActiveAdmission(ctx, patient.PatientID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActiveAdmission
		}
		if err != nil {
			return fmt.Errorf("failed to get admission: %w", err)
		}
		assignment, transitions, err = placeInBed(ctx, st, placement{
			Patient:     patient,
			AdmissionID: adm.AdmissionID,
			Slot:        slot,
			At:          now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bed assigned",
		zap.String("rut", rut),
		zap.String("bed", slot.Key()),
		zap.Int("transitions", len(transitions)),
	)
	for _, tr := range transitions {
		_ = s.notifier.NotifyBed(ctx, tr)
	}
	return assignment, nil
}

// ReleaseBed deactivates the patient's active assignment
func (s *BedService) ReleaseBed(ctx context.Context, rut string) error {
	rut = domain.NormalizeRUT(rut)
	if rut == "" {
		return fmt.Errorf("%w: rut is required", ErrInvalidRequest)
	}

	// the bed lock is not needed: releasing can only free a slot
	unlock, err := s.locker.Lock(ctx, lock.PatientKey(rut))
	if err != nil {
		return err
	}
	defer unlock()

	now := s.now()
	var tr notify.BedTransition
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		patient, err := st.Patients.GetPatientByRUT(ctx, rut)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPatientNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		current, err := st.Beds.GetActiveAssignmentByPatient(ctx, patient.PatientID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotAssigned
		}
		if err != nil {
			return fmt.Errorf("failed to get current bed: %w", err)
		}
		err = st.Beds.DeactivateAssignment(ctx, current.AssignmentID, now)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotAssigned
		}
		if err != nil {
			return fmt.Errorf("failed to release bed: %w", err)
		}
		from := current.Slot()
		tr = notify.BedTransition{
			Kind:        notify.TransitionReleased,
			PatientID:   patient.PatientID,
			PatientName: patient.Name,
			RUT:         patient.RUT,
			From:        &from,
			At:          now,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Bed released", zap.String("rut", rut), zap.String("bed", tr.From.Key()))
	_ = s.notifier.NotifyBed(ctx, tr)
	return nil
}

// ListOccupancy active assignments ordered by room and bed
func (s *BedService) ListOccupancy(ctx context.Context) ([]domain.BedOccupancy, error) {
	list, err := s.tx.Stores().Beds.ListActiveAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return list, nil
}
