package domain

import "time"

// BirthDateSource how HandoverRecord.BirthDate was obtained
type BirthDateSource string

const (
	BirthDateParsed      BirthDateSource = "parsed"      // age cell held a date
	BirthDateDerived     BirthDateSource = "derived"     // back-calculated from "<n> años/meses/días"
	BirthDatePlaceholder BirthDateSource = "placeholder" // nothing usable, PlaceholderBirthDate
)

// PlaceholderBirthDate stored when the sheet carries no usable age
var PlaceholderBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ScoreReading respiratory score parsed from the free-text label ("TAL 5")
type ScoreReading struct {
	Scale string `json:"scale"`
	Value int    `json:"value"`
}

// HandoverRecord one parsed row of the bed handover sheet. Not persisted.
type HandoverRecord struct {
	Row              int                  `json:"row"` // 1-based sheet row
	Room             string               `json:"room"`
	Bed              int                  `json:"bed"`
	Name             string               `json:"name"`
	RUT              string               `json:"rut"`
	BirthDate        time.Time            `json:"birth_date"`
	BirthDateSource  BirthDateSource      `json:"birth_date_source"`
	Diagnoses        []string             `json:"diagnoses"`
	AdmissionDate    time.Time            `json:"admission_date"`
	ViralPanel       string               `json:"viral_panel,omitempty"`
	Oxygen           *OxygenRequirement   `json:"oxygen,omitempty"`
	RespiratoryScore string               `json:"respiratory_score,omitempty"`
	ScoreReading     *ScoreReading        `json:"score_reading,omitempty"`
	PendingTasks     string               `json:"pending_tasks,omitempty"`
	Plan             string               `json:"plan,omitempty"`
	Antibiotics      []AntibioticTracking `json:"antibiotics,omitempty"`
}

// Slot physical bed named by the record
func (r *HandoverRecord) Slot() BedSlot {
	return BedSlot{Room: r.Room, Bed: r.Bed}
}

// HasKnownBirthDate false when the placeholder was used
func (r *HandoverRecord) HasKnownBirthDate() bool {
	return r.BirthDateSource != BirthDatePlaceholder && !r.BirthDate.IsZero()
}

// AgeInMonths completed months between birth and at.
// The placeholder birth date yields ErrUnknownAge instead of an "adult" age.
func AgeInMonths(birth time.Time, at time.Time) (int, error) {
	if birth.IsZero() || birth.Equal(PlaceholderBirthDate) {
		return 0, ErrUnknownAge
	}
	months := (at.Year()-birth.Year())*12 + int(at.Month()) - int(birth.Month())
	if at.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months, nil
}
