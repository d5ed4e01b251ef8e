package scoring

// ScaleModifiedTal scale identifier
const ScaleModifiedTal = "tal"

// TalParams inputs of the modified Tal scale
type TalParams struct {
	AgeMonths       *int   `json:"age_months"`
	RespiratoryRate int    `json:"respiratory_rate"`
	HeartRate       int    `json:"heart_rate"`
	Cyanosis        string `json:"cyanosis"`
	Retraction      string `json:"retraction"`
	Wheeze          string `json:"wheeze"`
}

// TalTable thresholds of one rule set; vital signs are banded by age
type TalTable struct {
	RespiratoryRate []AgeBands
	HeartRate       []AgeBands
	Cyanosis        map[string]int
	Retraction      map[string]int
	Wheeze          map[string]int
	Tiers           []Tier
}

// ModifiedTal scores the modified Tal scale (0-13)
func (e *Engine) ModifiedTal(p TalParams) (*ScoreResult, error) {
	t := e.rules.Tal
	age, err := requireAge(ScaleModifiedTal, p.AgeMonths)
	if err != nil {
		return nil, err
	}
	if p.RespiratoryRate < 0 {
		return nil, invalid(ScaleModifiedTal, "respiratory_rate", "negative respiratory rate %d", p.RespiratoryRate)
	}
	if p.HeartRate < 0 {
		return nil, invalid(ScaleModifiedTal, "heart_rate", "negative heart rate %d", p.HeartRate)
	}

	score := ageBandPoints(t.RespiratoryRate, age, p.RespiratoryRate) +
		ageBandPoints(t.HeartRate, age, p.HeartRate)

	items := []struct {
		field string
		value string
		table map[string]int
	}{
		{"cyanosis", p.Cyanosis, t.Cyanosis},
		{"retraction", p.Retraction, t.Retraction},
		{"wheeze", p.Wheeze, t.Wheeze},
	}
	for _, it := range items {
		pts, err := enumPoints(ScaleModifiedTal, it.field, it.value, it.table)
		if err != nil {
			return nil, err
		}
		score += pts
	}
	return e.result(ScaleModifiedTal, score, t.Tiers), nil
}
