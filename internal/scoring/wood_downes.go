package scoring

// ScaleWoodDownes scale identifier
const ScaleWoodDownes = "wood_downes"

// WoodDownesParams inputs of the Wood-Downes scale (under 36 months)
type WoodDownesParams struct {
	AgeMonths        *int   `json:"age_months"`
	RespiratoryRate  int    `json:"respiratory_rate"`
	Wheeze           string `json:"wheeze"`
	AccessoryMuscles string `json:"accessory_muscles"`
	Cyanosis         string `json:"cyanosis"`
	Consciousness    string `json:"consciousness"`
}

// WoodDownesTable thresholds of one rule set
type WoodDownesTable struct {
	AgeCeilingMonths int // ages >= ceiling are rejected
	RespiratoryRate  []Band
	Wheeze           map[string]int
	AccessoryMuscles map[string]int
	Cyanosis         map[string]int
	Consciousness    map[string]int
	Tiers            []Tier
}

// WoodDownes scores the five Wood-Downes items (0-15)
func (e *Engine) WoodDownes(p WoodDownesParams) (*ScoreResult, error) {
	t := e.rules.WoodDownes
	age, err := requireAge(ScaleWoodDownes, p.AgeMonths)
	if err != nil {
		return nil, err
	}
	if age >= t.AgeCeilingMonths {
		return nil, &DomainError{
			Scale: ScaleWoodDownes, Field: "age_months", Err: ErrAgeOutOfRange,
			Msg: "scale valid only below " + itoa(t.AgeCeilingMonths) + " months, got " + itoa(age),
		}
	}
	if p.RespiratoryRate < 0 {
		return nil, invalid(ScaleWoodDownes, "respiratory_rate", "negative respiratory rate %d", p.RespiratoryRate)
	}

	score := bandPoints(t.RespiratoryRate, p.RespiratoryRate)
	items := []struct {
		field string
		value string
		table map[string]int
	}{
		{"wheeze", p.Wheeze, t.Wheeze},
		{"accessory_muscles", p.AccessoryMuscles, t.AccessoryMuscles},
		{"cyanosis", p.Cyanosis, t.Cyanosis},
		{"consciousness", p.Consciousness, t.Consciousness},
	}
	for _, it := range items {
		pts, err := enumPoints(ScaleWoodDownes, it.field, it.value, it.table)
		if err != nil {
			return nil, err
		}
		score += pts
	}
	return e.result(ScaleWoodDownes, score, t.Tiers), nil
}
