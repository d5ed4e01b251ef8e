package domain

import "time"

// AdmissionStatus hospitalization episode status
type AdmissionStatus string

const (
	AdmissionActive      AdmissionStatus = "active"
	AdmissionDischarged  AdmissionStatus = "discharged"
	AdmissionTransferred AdmissionStatus = "transferred"
	AdmissionDeceased    AdmissionStatus = "deceased"
)

// Admission hospitalization episode (admissions table)
// At most one active admission per patient.
type Admission struct {
	AdmissionID   string          `db:"admission_id" json:"admission_id"`
	PatientID     string          `db:"patient_id" json:"patient_id"`
	Status        AdmissionStatus `db:"status" json:"status"`
	AdmissionDate time.Time       `db:"admission_date" json:"admission_date"`
	DischargeDate *time.Time      `db:"discharge_date" json:"discharge_date,omitempty"`

	// clinical context, overwritten by every import (last import wins)
	Diagnoses        []string                  `db:"diagnoses" json:"diagnoses"`
	Oxygen           *OxygenRequirement        `db:"oxygen_requirement" json:"oxygen_requirement,omitempty"`
	RespiratoryScore string                    `db:"respiratory_score" json:"respiratory_score,omitempty"`
	ViralPanel       string                    `db:"viral_panel" json:"viral_panel,omitempty"`
	PendingTasks     string                    `db:"pending_tasks" json:"pending_tasks,omitempty"`
	TreatmentPlan    string                    `db:"treatment_plan" json:"treatment_plan,omitempty"`
	Antibiotics      []AntibioticTracking      `db:"antibiotics" json:"antibiotics,omitempty"`
	ScoreTracking    *RespiratoryScoreTracking `db:"score_tracking" json:"score_tracking,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewAdmissionFromRecord builds an active admission for a patient from an import row
func NewAdmissionFromRecord(patientID string, rec *HandoverRecord, at time.Time) *Admission {
	a := &Admission{
		PatientID:     patientID,
		Status:        AdmissionActive,
		AdmissionDate: rec.AdmissionDate,
	}
	a.ApplyClinicalContext(rec, at)
	if a.ScoreTracking != nil {
		a.ScoreTracking.AtAdmission = a.ScoreTracking.Current
	}
	return a
}

// ApplyClinicalContext overwrites the clinical fields from an import row.
// Score tracking keeps AtAdmission and refreshes Current/DateMeasured.
func (a *Admission) ApplyClinicalContext(rec *HandoverRecord, at time.Time) {
	a.Diagnoses = append([]string(nil), rec.Diagnoses...)
	a.Oxygen = rec.Oxygen
	a.RespiratoryScore = rec.RespiratoryScore
	a.ViralPanel = rec.ViralPanel
	a.PendingTasks = rec.PendingTasks
	a.TreatmentPlan = rec.Plan
	a.Antibiotics = append([]AntibioticTracking(nil), rec.Antibiotics...)

	if rec.ScoreReading == nil {
		return
	}
	if a.ScoreTracking == nil || a.ScoreTracking.Scale != rec.ScoreReading.Scale {
		a.ScoreTracking = &RespiratoryScoreTracking{
			Scale:       rec.ScoreReading.Scale,
			AtAdmission: rec.ScoreReading.Value,
		}
	}
	if a.ScoreTracking.Current != rec.ScoreReading.Value || a.ScoreTracking.DateMeasured.IsZero() {
		a.ScoreTracking.DateMeasured = at
	}
	a.ScoreTracking.Current = rec.ScoreReading.Value
}
