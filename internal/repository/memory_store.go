package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// MemoryStore in-memory Transactor used when no database is configured and in tests.
// WithinTx works on a clone of the state and swaps it in on success, so a failed
// transaction leaves nothing behind. Transactions are serialized. The unique
// constraints of the SQL schema are enforced and reported as ErrConflict.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
}

type memoryState struct {
	patients    map[string]domain.Patient // patient_id ->
	admissions  map[string]domain.Admission
	assignments map[string]domain.BedAssignment
	seq         int64 // insertion order for stable listings
	order       map[string]int64
}

// NewMemoryStore empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

var _ Transactor = (*MemoryStore)(nil)

func newMemoryState() memoryState {
	return memoryState{
		patients:    map[string]domain.Patient{},
		admissions:  map[string]domain.Admission{},
		assignments: map[string]domain.BedAssignment{},
		order:       map[string]int64{},
	}
}

func (s memoryState) clone() memoryState {
	c := newMemoryState()
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.admissions {
		c.admissions[k] = cloneAdmission(v)
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.order {
		c.order[k] = v
	}
	c.seq = s.seq
	return c
}

func (s *memoryState) nextID() string {
	id := uuid.New().String()
	s.seq++
	s.order[id] = s.seq
	return id
}

func cloneAdmission(a domain.Admission) domain.Admission {
	a.Diagnoses = append([]string(nil), a.Diagnoses...)
	a.Antibiotics = append([]domain.AntibioticTracking(nil), a.Antibiotics...)
	if a.Oxygen != nil {
		o := *a.Oxygen
		a.Oxygen = &o
	}
	if a.ScoreTracking != nil {
		st := *a.ScoreTracking
		a.ScoreTracking = &st
	}
	return a
}

// WithinTx runs fn against a private copy of the state and commits it when fn succeeds
func (m *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := m.state.clone()
	if err := fn(ctx, (&memoryRepo{tx: &work}).stores()); err != nil {
		return err
	}
	m.state = work
	return nil
}

// Stores autocommit access, each call locks the store
func (m *MemoryStore) Stores() Stores {
	return (&memoryRepo{store: m}).stores()
}

// MemoryCounts row counts, used to check idempotence
type MemoryCounts struct {
	Patients          int
	Admissions        int
	ActiveAdmissions  int
	Assignments       int
	ActiveAssignments int
}

// Counts current row counts
func (m *MemoryStore) Counts() MemoryCounts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := MemoryCounts{
		Patients:    len(m.state.patients),
		Admissions:  len(m.state.admissions),
		Assignments: len(m.state.assignments),
	}
	for _, a := range m.state.admissions {
		if a.Status == domain.AdmissionActive {
			c.ActiveAdmissions++
		}
	}
	for _, b := range m.state.assignments {
		if b.IsActive {
			c.ActiveAssignments++
		}
	}
	return c
}

// Assignments every assignment row (active or not) in insertion order
func (m *MemoryStore) Assignments() []domain.BedAssignment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BedAssignment, 0, len(m.state.assignments))
	for _, b := range m.state.assignments {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.state.order[out[i].AssignmentID] < m.state.order[out[j].AssignmentID]
	})
	return out
}

// memoryRepo implements the three repositories over either a transaction's
// working copy (tx) or the shared state (store)
type memoryRepo struct {
	store *MemoryStore
	tx    *memoryState
}

var (
	_ PatientsRepository       = (*memoryRepo)(nil)
	_ AdmissionsRepository     = (*memoryRepo)(nil)
	_ BedAssignmentsRepository = (*memoryRepo)(nil)
)

func (r *memoryRepo) stores() Stores {
	return Stores{Patients: r, Admissions: r, Beds: r}
}

func (r *memoryRepo) read(f func(st *memoryState) error) error {
	if r.tx != nil {
		return f(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return f(&r.store.state)
}

func (r *memoryRepo) write(f func(st *memoryState) error) error {
	if r.tx != nil {
		return f(r.tx)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return f(&r.store.state)
}

// ==================== patients ====================

func (r *memoryRepo) GetPatientByRUT(_ context.Context, rut string) (*domain.Patient, error) {
	var out *domain.Patient
	err := r.read(func(st *memoryState) error {
		for _, p := range st.patients {
			if p.RUT == rut {
				cp := p
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("patient %s: %w", rut, ErrNotFound)
	})
	return out, err
}

func (r *memoryRepo) CreatePatient(_ context.Context, p *domain.Patient) (string, error) {
	if p == nil || p.RUT == "" || p.Name == "" {
		return "", fmt.Errorf("rut and name are required")
	}
	var id string
	err := r.write(func(st *memoryState) error {
		for _, existing := range st.patients {
			if existing.RUT == p.RUT {
				return fmt.Errorf("patients_rut_key %s: %w", p.RUT, ErrConflict)
			}
		}
		now := time.Now()
		cp := *p
		cp.PatientID = st.nextID()
		cp.CreatedAt, cp.UpdatedAt = now, now
		st.patients[cp.PatientID] = cp
		id = cp.PatientID
		return nil
	})
	return id, err
}

func (r *memoryRepo) UpdatePatientDemographics(_ context.Context, patientID, name string, dateOfBirth *time.Time) error {
	return r.write(func(st *memoryState) error {
		p, ok := st.patients[patientID]
		if !ok {
			return fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
		}
		p.Name = name
		if dateOfBirth != nil && !dateOfBirth.IsZero() {
			d := *dateOfBirth
			p.DateOfBirth = &d
		}
		p.UpdatedAt = time.Now()
		st.patients[patientID] = p
		return nil
	})
}

// ==================== admissions ====================

func (r *memoryRepo) GetActiveAdmission(_ context.Context, patientID string) (*domain.Admission, error) {
	var out *domain.Admission
	err := r.read(func(st *memoryState) error {
		for _, a := range st.admissions {
			if a.PatientID == patientID && a.Status == domain.AdmissionActive {
				cp := cloneAdmission(a)
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("active admission of patient %s: %w", patientID, ErrNotFound)
	})
	return out, err
}

func (r *memoryRepo) CreateAdmission(_ context.Context, a *domain.Admission) (string, error) {
	if a == nil || a.PatientID == "" {
		return "", fmt.Errorf("patient_id is required")
	}
	var id string
	err := r.write(func(st *memoryState) error {
		if _, ok := st.patients[a.PatientID]; !ok {
			return fmt.Errorf("patient %s: %w", a.PatientID, ErrNotFound)
		}
		if a.Status == domain.AdmissionActive {
			for _, existing := range st.admissions {
				if existing.PatientID == a.PatientID && existing.Status == domain.AdmissionActive {
					return fmt.Errorf("admissions_one_active_per_patient %s: %w", a.PatientID, ErrConflict)
				}
			}
		}
		now := time.Now()
		cp := cloneAdmission(*a)
		cp.AdmissionID = st.nextID()
		cp.CreatedAt, cp.UpdatedAt = now, now
		st.admissions[cp.AdmissionID] = cp
		id = cp.AdmissionID
		return nil
	})
	return id, err
}

func (r *memoryRepo) UpdateAdmissionClinicalContext(_ context.Context, a *domain.Admission) error {
	return r.write(func(st *memoryState) error {
		cur, ok := st.admissions[a.AdmissionID]
		if !ok {
			return fmt.Errorf("admission %s: %w", a.AdmissionID, ErrNotFound)
		}
		in := cloneAdmission(*a)
		cur.Diagnoses = in.Diagnoses
		cur.Oxygen = in.Oxygen
		cur.RespiratoryScore = in.RespiratoryScore
		cur.ViralPanel = in.ViralPanel
		cur.PendingTasks = in.PendingTasks
		cur.TreatmentPlan = in.TreatmentPlan
		cur.Antibiotics = in.Antibiotics
		cur.ScoreTracking = in.ScoreTracking
		cur.UpdatedAt = time.Now()
		st.admissions[a.AdmissionID] = cur
		return nil
	})
}

// ==================== bed assignments ====================

func (r *memoryRepo) findActive(match func(b domain.BedAssignment) bool, what string) (*domain.BedAssignment, error) {
	var out *domain.BedAssignment
	err := r.read(func(st *memoryState) error {
		for _, b := range st.assignments {
			if b.IsActive && match(b) {
				cp := b
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("active assignment of %s: %w", what, ErrNotFound)
	})
	return out, err
}

func (r *memoryRepo) GetActiveAssignmentByPatient(_ context.Context, patientID string) (*domain.BedAssignment, error) {
	return r.findActive(func(b domain.BedAssignment) bool { return b.PatientID == patientID }, "patient "+patientID)
}

func (r *memoryRepo) GetActiveAssignmentByBed(_ context.Context, room string, bed int) (*domain.BedAssignment, error) {
	slot := domain.BedSlot{Room: room, Bed: bed}
	return r.findActive(func(b domain.BedAssignment) bool { return b.Slot() == slot }, "bed "+slot.Key())
}

func (r *memoryRepo) DeactivateAssignment(_ context.Context, assignmentID string, at time.Time) error {
	return r.write(func(st *memoryState) error {
		b, ok := st.assignments[assignmentID]
		if !ok || !b.IsActive {
			return fmt.Errorf("active assignment %s: %w", assignmentID, ErrNotFound)
		}
		b.IsActive = false
		b.DischargedAt = &at
		st.assignments[assignmentID] = b
		return nil
	})
}

func (r *memoryRepo) CreateAssignment(_ context.Context, b *domain.BedAssignment) (string, error) {
	if b == nil || b.PatientID == "" || b.AdmissionID == "" || b.RoomNumber == "" {
		return "", fmt.Errorf("patient_id, admission_id and room_number are required")
	}
	var id string
	err := r.write(func(st *memoryState) error {
		for _, existing := range st.assignments {
			if !existing.IsActive {
				continue
			}
			if existing.PatientID == b.PatientID {
				return fmt.Errorf("bed_assignments_one_active_per_patient %s: %w", b.PatientID, ErrConflict)
			}
			if existing.Slot() == b.Slot() {
				return fmt.Errorf("bed_assignments_one_active_per_bed %s: %w", b.Slot().Key(), ErrConflict)
			}
		}
		cp := *b
		cp.AssignmentID = st.nextID()
		cp.IsActive = true
		cp.DischargedAt = nil
		if cp.AssignedAt.IsZero() {
			cp.AssignedAt = time.Now()
		}
		st.assignments[cp.AssignmentID] = cp
		id = cp.AssignmentID
		return nil
	})
	return id, err
}

func (r *memoryRepo) ListActiveAssignments(_ context.Context) ([]domain.BedOccupancy, error) {
	out := []domain.BedOccupancy{}
	err := r.read(func(st *memoryState) error {
		for _, b := range st.assignments {
			if !b.IsActive {
				continue
			}
			p := st.patients[b.PatientID]
			out = append(out, domain.BedOccupancy{BedAssignment: b, PatientName: p.Name, RUT: p.RUT})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomNumber != out[j].RoomNumber {
			return out[i].RoomNumber < out[j].RoomNumber
		}
		return out[i].BedNumber < out[j].BedNumber
	})
	return out, err
}
