package domain

// Oxygen therapy types recognized by the handover parser
const (
	OxygenNasalCannula = "CN"
	OxygenCPAP         = "CPAP"
	OxygenAmbientAir   = "AA"
)

// OxygenRequirement structured oxygen support; only the fields relevant to Type are set
type OxygenRequirement struct {
	Type  string   `json:"type"`
	Flow  *float64 `json:"flow,omitempty"`  // L/min, nasal cannula
	PEEP  *float64 `json:"peep,omitempty"`  // cmH2O, CPAP
	FiO2  *float64 `json:"fio2,omitempty"`  // %, CPAP
	Usage string   `json:"usage,omitempty"` // "nocturno" | "continuo", CPAP
}
