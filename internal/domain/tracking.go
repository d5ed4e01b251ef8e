package domain

import "time"

// AntibioticTracking one antibiotic course embedded in an admission
// Either EndDate or PlannedDays defines the course length.
type AntibioticTracking struct {
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	PlannedDays int        `json:"planned_days,omitempty"`
	CurrentDay  int        `json:"current_day,omitempty"`
}

// RespiratoryScoreTracking admission-time vs latest respiratory score
type RespiratoryScoreTracking struct {
	Scale        string    `json:"scale,omitempty"`
	AtAdmission  int       `json:"at_admission"`
	Current      int       `json:"current"`
	DateMeasured time.Time `json:"date_measured"`
}
