// Package scoring evaluates pediatric respiratory distress scales against
// versioned, table-driven rule sets.
package scoring

import "math"

// Severity ordered severity tier
type Severity string

const (
	SeverityLeve     Severity = "leve"
	SeverityModerado Severity = "moderado"
	SeverityGrave    Severity = "grave"
	SeverityCritico  Severity = "crítico"
)

// ScoreResult scale output, never persisted here
type ScoreResult struct {
	Scale           string   `json:"scale"`
	RuleSet         string   `json:"rule_set"`
	Score           int      `json:"score"`
	Interpretation  string   `json:"interpretation"`
	Severity        Severity `json:"severity"`
	Recommendations []string `json:"recommendations"`
}

// Band inclusive upper bound -> points. The last band of a table uses math.MaxInt.
type Band struct {
	Max    int
	Points int
}

// AgeBands bands valid below MaxAgeMonths (exclusive)
type AgeBands struct {
	MaxAgeMonths int
	Bands        []Band
}

// Tier total score up to MaxScore (inclusive) -> severity
type Tier struct {
	MaxScore        int
	Severity        Severity
	Interpretation  string
	Recommendations []string
}

const unbounded = math.MaxInt

func bandPoints(bands []Band, v int) int {
	for _, b := range bands {
		if v <= b.Max {
			return b.Points
		}
	}
	return bands[len(bands)-1].Points
}

func ageBandPoints(table []AgeBands, ageMonths, v int) int {
	for _, ab := range table {
		if ageMonths < ab.MaxAgeMonths {
			return bandPoints(ab.Bands, v)
		}
	}
	return bandPoints(table[len(table)-1].Bands, v)
}

func tierFor(tiers []Tier, score int) Tier {
	for _, t := range tiers {
		if score <= t.MaxScore {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
